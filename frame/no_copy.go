package frame

// noCopy makes `go vet` (copylocks) report Frame values being copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
