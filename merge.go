package nccl

// Merge returns a new tree holding high with low layered underneath it.
// Keys present in both are merged recursively with high's children first,
// so high stays authoritative wherever a single value is read. Neither
// argument is modified.
func Merge(high, low *Config) *Config {
	merged := high.Clone()

	for _, child := range low.children {
		merged.AddChild(child.Clone())
	}
	return merged
}
