package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// RegistrationDecisionMailData 在登记被审批通过或驳回后发给员工
type RegistrationDecisionMailData struct {
	FullName string   `json:"fullName"`
	Approved bool     `json:"approved"`
	Items    []string `json:"items"` // 例如 "2026-03-02 早班"
	Reason   string   `json:"reason"`
}
