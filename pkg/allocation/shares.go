package allocation

// ValidateShareSchedule reports whether shares is a valid weighted payout schedule:
// every share is within [1, 100], the sequence is non-increasing and the sum is exactly 100.
func ValidateShareSchedule(shares []uint8) bool {
	if len(shares) == 0 {
		return false
	}
	var (
		sum  uint64
		prev uint8 = TotalPercent
	)
	for _, share := range shares {
		if share == 0 || share > TotalPercent || share > prev {
			return false
		}
		sum += uint64(share)
		prev = share
	}
	return sum == TotalPercent
}

// LeftoverPercent sums the shares of the slots from index effective onwards, i.e. the part of
// the schedule that has no winner when fewer units were sold than there are winner slots.
func LeftoverPercent(shares []uint8, effective int) uint64 {
	var leftover uint64
	for i := effective; i < len(shares); i++ {
		leftover += uint64(shares[i])
	}
	return leftover
}

// HasDuplicates reports whether ids contains the same value twice.
// Pairwise scan; inputs are bounded by the winner slot capacity.
func HasDuplicates[T comparable](ids []T) bool {
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[i] == ids[j] {
				return true
			}
		}
	}
	return false
}
