// Package sqlerr classifies PostgreSQL driver errors.
//
// The global error handler hands repository errors to HandleError, which
// maps them onto HTTP errors. The console uses Classify and Describe to log
// the SQLSTATE and a readable summary of a failed statement without changing
// what the client sees.
package sqlerr
