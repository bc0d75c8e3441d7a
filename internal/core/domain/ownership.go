package domain

// OwningStore identifies which store is authoritative for a profile field.
type OwningStore string

const (
	// OwnerVault marks operator-authored fields that live in the vault
	// markdown documents. Board syncs must never overwrite them.
	OwnerVault OwningStore = "vault"

	// OwnerBoard marks fields managed on the external board. Vault
	// content must never overwrite them.
	OwnerBoard OwningStore = "board"
)

// Field names a ClientProfile field subject to ownership rules.
type Field string

// Profile fields with a single owning store.
const (
	FieldName           Field = "name"
	FieldIndustry       Field = "industry"
	FieldWebsiteURL     Field = "website_url"
	FieldTargetAudience Field = "target_audience"
	FieldBrandVoice     Field = "brand_voice"
	FieldTopicKeywords  Field = "topic_keywords"
	FieldServices       Field = "services"
	FieldAgency         Field = "agency"
	FieldAbbreviation   Field = "abbreviation"
	FieldPointOfContact Field = "point_of_contact"
)

// FieldOwnership is the static field -> owning store map. Exactly one
// owner per field: a sync pass writes the owner's current value outward
// and never lets a non-owning store's stale value win.
var FieldOwnership = map[Field]OwningStore{
	FieldName:           OwnerBoard,
	FieldIndustry:       OwnerVault,
	FieldWebsiteURL:     OwnerVault,
	FieldTargetAudience: OwnerVault,
	FieldBrandVoice:     OwnerVault,
	FieldTopicKeywords:  OwnerVault,
	FieldServices:       OwnerBoard,
	FieldAgency:         OwnerBoard,
	FieldAbbreviation:   OwnerBoard,
	FieldPointOfContact: OwnerBoard,
}

// Owner returns the owning store for a field.
func Owner(f Field) OwningStore {
	return FieldOwnership[f]
}
