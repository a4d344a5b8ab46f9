package domain

// SubjectType differentiates tenant principals from platform operators.
type SubjectType string

const (
	SubjectTypePrincipal SubjectType = "PRINCIPAL"
	SubjectTypeOperator  SubjectType = "OPERATOR"
)
