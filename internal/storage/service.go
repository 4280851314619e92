package storage

// Service provides query access to the database.
type Service struct {
	db *DB
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	return &Service{db: db}
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
