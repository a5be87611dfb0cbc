package lua

// daily 스크립트 이름 상수.
const (
	ScriptLockAcquire = "lock_acquire"
	ScriptLockRelease = "lock_release"
)
