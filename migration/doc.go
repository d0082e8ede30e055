/*
Package migration provides tooling for schema versioned entities.

Every persistent entity and message carries a Metadata attribute with a
schema version. Extensions register a migration function for each schema
version they support. The migration framework upgrades entities to the
currently active schema version when they are loaded from or written to
the store, so handlers always operate on the newest data format.
*/
package migration
