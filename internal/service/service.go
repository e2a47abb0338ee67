// Package service holds the application logic between handlers and
// repositories.
//
// ConsoleService runs operator SQL through the console gateway and audits
// it; DashboardService serves the aggregate views through a Redis cache.
package service
