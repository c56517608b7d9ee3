package methods

type Store struct {
	root string
}

//effect:declare args=(key as K), side_effects=(store_put(K))
func (s *Store) Put(key string) {}

func (s *Store) key(id string) string {
	return "users/" + id
}

//effect:entrypoint
func Save(s *Store, id string) { // want `Save may trigger store_put\("users/\*"\)`
	s.Put("users/" + id)
}

//effect:entrypoint
func Touch(s *Store) { // want `Touch may trigger store_put\("users/admin"\)`
	s.Put(s.key("admin"))
}
