package sqldb

// Schema is implemented by each persisted-entity collaborator. The façade
// holds an ordered list of Schemas and drives them during Initialize; it
// knows nothing else about entity storage layouts.
type Schema interface {
	// Name identifies the entity in logs and errors.
	Name() string
	// DropAll removes the entity's tables and indexes.
	DropAll(db *DB) error
	// CreateAll creates the entity's tables and indexes, and seeds any
	// rows the entity requires to exist.
	CreateAll(db *DB) error
}
