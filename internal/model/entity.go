package model

// Entity is implemented by every record that is stored through a repository.
type Entity interface {
	EntityID() int64
	SetEntityID(id int64)
}
