package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Catalog; nil when the database is disabled or unreachable
	ProductRepository ProductRepository

	// Cache
	Cache Cache

	// Infrastructure
	Logger   Logger
	Database interface{}
}
