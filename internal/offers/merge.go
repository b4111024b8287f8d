package offers

// Merge returns the union of original and incoming keyed by sailing identity.
//
// The result starts as a copy of original. Each incoming sailing whose key is already present
// overwrites that entry in place (replaced); every other incoming sailing, including those
// without an identity, is appended (added). Nothing from original is dropped, so
// len(result) == len(original) + added. On a key collision the incoming entry wins, which makes
// Merge deliberately non-commutative.
func Merge(original []Sailing, incoming []Sailing) ([]Sailing, int, int) {
	result := make([]Sailing, len(original), len(original)+len(incoming))
	copy(result, original)

	index := make(map[string]int, len(result))
	for i, s := range result {
		if k, ok := Key(s); ok {
			index[k] = i
		}
	}

	var added, replaced int
	for _, s := range incoming {
		k, ok := Key(s)
		if ok {
			if i, found := index[k]; found {
				result[i] = s
				replaced++
				continue
			}
		}

		result = append(result, s)
		if ok {
			index[k] = len(result) - 1
		}
		added++
	}

	return result, added, replaced
}
