package registry

// Entity weights by category, 1-10. These mirror the category groupings
// of the original Python registry (direct identifiers, healthcare,
// financial, credentials, government, ...) even though the exact
// upstream weight table (weights.py) was not available for porting —
// values below are assigned by category severity and cross-checked
// against the detector set in internal/detectors.

var directIdentifierWeights = map[string]int{
	"SSN":            10,
	"PASSPORT":       9,
	"DRIVER_LICENSE": 8,
	"DOB":            6,
	"FULL_NAME":      4,
}

var healthcareWeights = map[string]int{
	"MRN":        9,
	"ICD_CODE":   6,
	"NDC":        6,
	"DIAGNOSIS":  7,
	"LAB_TEST":   4,
	"NPI":        7,
	"PRESCRIPTION": 7,
}

var personalInfoWeights = map[string]int{
	"ADDRESS_US": 5,
	"PHONE_US":   4,
	"EMAIL":      4,
	"GENDER":     3,
	"RACE":       5,
}

var contactInfoWeights = map[string]int{
	"EMAIL":      4,
	"PHONE_US":   4,
	"ADDRESS_US": 5,
}

var financialWeights = map[string]int{
	"CREDIT_CARD":    10,
	"BANK_ACCOUNT":   9,
	"ROUTING_NUMBER": 7,
	"IBAN":           9,
	"CUSIP":          7,
	"ISIN":           7,
	"SEDOL":          6,
	"SWIFT_BIC":      5,
}

var digitalIdentifierWeights = map[string]int{
	"BITCOIN_ADDRESS":  6,
	"ETHEREUM_ADDRESS": 6,
	"IP_ADDRESS":       3,
	"MAC_ADDRESS":      3,
	"DEVICE_ID":        4,
}

var credentialWeights = map[string]int{
	"AWS_ACCESS_KEY":         10,
	"AWS_SECRET_KEY":         10,
	"PRIVATE_KEY":            10,
	"JWT":                    8,
	"GITHUB_TOKEN":           9,
	"SLACK_TOKEN":            8,
	"GOOGLE_API_KEY":         8,
	"AZURE_CONNECTION_STRING": 9,
	"DB_CONNECTION_STRING":   9,
	"GENERIC_API_KEY":        7,
	"STRIPE_KEY":             9,
	"PASSWORD_ASSIGNMENT":    7,
}

var governmentWeights = map[string]int{
	"CLASSIFICATION_LEVEL":  10,
	"SCI_MARKING":           10,
	"DISSEMINATION_CONTROL": 9,
	"CAGE_CODE":             5,
	"DUNS_NUMBER":           4,
	"UEI":                   4,
	"DOD_CONTRACT":          6,
	"GSA_CONTRACT":          6,
	"CLEARANCE_LEVEL":       8,
	"ITAR_MARKING":          9,
	"EAR_MARKING":           8,
}

var educationWeights = map[string]int{
	"STUDENT_ID": 6,
	"FERPA_RECORD": 7,
}

var legalWeights = map[string]int{
	"BAR_NUMBER":  5,
	"CASE_NUMBER": 5,
}

var vehicleWeights = map[string]int{
	"VIN":             6,
	"LICENSE_PLATE":   4,
}

var immigrationWeights = map[string]int{
	"A_NUMBER":  8,
	"VISA_NUMBER": 7,
}

var insuranceWeights = map[string]int{
	"POLICY_NUMBER": 6,
	"CLAIM_NUMBER":  5,
}

var realEstateWeights = map[string]int{
	"PARCEL_ID": 3,
}

var telecomWeights = map[string]int{
	"IMEI": 4,
	"ICCID": 4,
}

var biometricWeights = map[string]int{
	"FINGERPRINT_TEMPLATE": 10,
	"FACE_TEMPLATE":        10,
}

var militaryWeights = map[string]int{
	"DOD_ID": 8,
}

var sensitiveFileWeights = map[string]int{
	"PRIVATE_KEY_FILE": 10,
}

var internationalIDWeights = map[string]int{
	"NATIONAL_ID": 8,
	"TAX_ID":      7,
}

var trackingWeights = map[string]int{
	"TRACKING_NUMBER": 2,
}

// DefaultWeight is used for any entity type not present in the registry.
const DefaultWeight = 5

func buildBaseWeights() map[string]int {
	merged := map[string]int{}
	for _, table := range []map[string]int{
		directIdentifierWeights,
		healthcareWeights,
		personalInfoWeights,
		contactInfoWeights,
		financialWeights,
		digitalIdentifierWeights,
		credentialWeights,
		governmentWeights,
		educationWeights,
		legalWeights,
		vehicleWeights,
		immigrationWeights,
		insuranceWeights,
		realEstateWeights,
		telecomWeights,
		biometricWeights,
		militaryWeights,
		sensitiveFileWeights,
		internationalIDWeights,
		trackingWeights,
	} {
		for k, v := range table {
			merged[k] = v
		}
	}
	return merged
}
