package envdiff

// ChangedEntry is a key present in both files with different values.
type ChangedEntry struct {
	Key         string
	BaseValue   string
	ActualValue string
}

// Difference lists how a comparison file departs from the base. Missing and Changed follow
// base order; Extra follows comparison order.
type Difference struct {
	Missing []Entry
	Changed []ChangedEntry
	Extra   []Entry
}

// Identical reports whether no differences were found.
func (difference Difference) Identical() bool {
	return len(difference.Missing) == 0 && len(difference.Changed) == 0 && len(difference.Extra) == 0
}

// Compare computes the difference between base and comparison.
func Compare(base OrderedEnvironment, comparison OrderedEnvironment) Difference {
	var difference Difference
	for _, baseEntry := range base.Entries() {
		actualValue, present := comparison.Get(baseEntry.Key)
		switch {
		case !present:
			difference.Missing = append(difference.Missing, baseEntry)
		case actualValue != baseEntry.Value:
			difference.Changed = append(difference.Changed, ChangedEntry{Key: baseEntry.Key, BaseValue: baseEntry.Value, ActualValue: actualValue})
		}
	}
	for _, comparisonEntry := range comparison.Entries() {
		if _, present := base.Get(comparisonEntry.Key); !present {
			difference.Extra = append(difference.Extra, comparisonEntry)
		}
	}
	return difference
}
