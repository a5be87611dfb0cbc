package assets

import _ "embed" // 에셋 임베드용

// GameMessagesYAML 는 데일리 챌린지 게임 메시지 YAML이다.
//
//go:embed messages/game-messages.yml
var GameMessagesYAML string

// LockAcquireLua 는 세션 락 획득 Lua 스크립트다.
//
//go:embed lua/lock_acquire.lua
var LockAcquireLua string

// LockReleaseLua 는 세션 락 해제 Lua 스크립트다.
//
//go:embed lua/lock_release.lua
var LockReleaseLua string
