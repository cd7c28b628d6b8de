package roster

import (
	"fmt"

	"github.com/nimbus-crew/rosterd/backend/internal/domain"
)

// CheckDecision 校验登记能否从 current 状态进入审批结果状态 target
//
// 只有 PENDING 的登记可以被通过或驳回，审批结果一旦落定就不可再变更：
// 对已通过或已驳回的登记重复审批返回 domain.ErrRegistrationNotPending。
// repository 里的条件 UPDATE 在并发下执行同一条规则，这里是它的可单测形式，
// 也用于条件更新未命中后对重读状态的判定。
func CheckDecision(current, target domain.RegistrationStatus) error {
	switch target {
	case domain.RegistrationApproved, domain.RegistrationRejected:
	default:
		return fmt.Errorf("无效的审批结果状态 %s", target)
	}

	if current != domain.RegistrationPending {
		return domain.ErrRegistrationNotPending
	}

	return nil
}
