package repository

// Repositories groups the repositories built over the shared pool.
type Repositories struct {
	Console   *ConsoleRepository
	Dashboard *DashboardRepository
	Audit     *AuditRepository
}

// NewRepositories wires every repository to db, normally the server's pool.
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Console:   NewConsoleRepository(db),
		Dashboard: NewDashboardRepository(db),
		Audit:     NewAuditRepository(db),
	}
}
