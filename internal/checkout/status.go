package checkout

// Status tracks a single checkout attempt. Validation failures happen before
// any transaction is opened; a Committing failure always ends in RolledBack.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusValidating Status = "VALIDATING"
	StatusCommitting Status = "COMMITTING"
	StatusCommitted  Status = "COMMITTED"
	StatusRolledBack Status = "ROLLED_BACK"
)

func (s Status) IsTerminal() bool {
	return s == StatusCommitted || s == StatusRolledBack
}

func (s Status) String() string {
	return string(s)
}
