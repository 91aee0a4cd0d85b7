package helper

// PointerOf returns a pointer to the passed value.
func PointerOf[A any](a A) *A { return &a }
