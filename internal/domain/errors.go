package domain

import "errors"

var (
	// ErrRegistrationNotPending 表示对非 PENDING 的登记执行了审批或驳回
	ErrRegistrationNotPending = errors.New("登记不处于待审批状态")
	// ErrRegistrationConflict 表示自然键冲突或乐观锁版本过期，调用方可以整体重试
	ErrRegistrationConflict = errors.New("登记已被其他操作修改")
	// ErrQuotaRace 表示提交时配额校验通过，但提交事务内复核时配额已被并发的提交占满
	ErrQuotaRace = errors.New("同岗位休班名额已被他人占用，请重新提交")
	// ErrApprovedImmutable 表示用户试图修改已经通过审批的登记
	ErrApprovedImmutable = errors.New("已通过审批的登记不允许修改")
)
