package models

// All lists every table in creation order.
func All() []any {
	return []any{
		&User{},
		&Follower{},
		&Photo{},
		&Like{},
		&Comment{},
		&Download{},
		&Collection{},
		&PhotoCollection{},
		&CollectionLike{},
		&CollectionFollower{},
		&Category{},
		&PhotoCategory{},
	}
}
