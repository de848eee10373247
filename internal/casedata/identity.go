package casedata

// IdentitySeparator joins region and sub-region in an identity
const IdentitySeparator = "|"

// ResolveIdentity derives the record key from region and optional sub-region.
// The same function must be used for insertion and lookup.
func ResolveIdentity(region, subRegion string) string {
	if subRegion == "" {
		return region
	}
	return region + IdentitySeparator + subRegion
}
