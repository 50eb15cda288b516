package registry

// Category tags used by the scorer's co-occurrence rules. Grouping
// mirrors the weight tables in weights.go.
func buildCategories() map[string]string {
	cats := map[string]string{}
	assign := func(category string, types ...string) {
		for _, t := range types {
			cats[t] = category
		}
	}
	assign("direct_identifier", "SSN", "PASSPORT", "DRIVER_LICENSE", "DOB", "FULL_NAME")
	assign("health_info", "MRN", "ICD_CODE", "NDC", "DIAGNOSIS", "LAB_TEST", "NPI", "PRESCRIPTION")
	assign("personal_info", "GENDER", "RACE")
	assign("contact_info", "EMAIL", "PHONE_US", "ADDRESS_US")
	assign("financial", "CREDIT_CARD", "BANK_ACCOUNT", "ROUTING_NUMBER", "IBAN", "CUSIP", "ISIN", "SEDOL", "SWIFT_BIC")
	assign("digital_identifier", "BITCOIN_ADDRESS", "ETHEREUM_ADDRESS", "IP_ADDRESS", "MAC_ADDRESS", "DEVICE_ID")
	assign("credential", "AWS_ACCESS_KEY", "AWS_SECRET_KEY", "PRIVATE_KEY", "JWT", "GITHUB_TOKEN",
		"SLACK_TOKEN", "GOOGLE_API_KEY", "AZURE_CONNECTION_STRING", "DB_CONNECTION_STRING",
		"GENERIC_API_KEY", "STRIPE_KEY", "PASSWORD_ASSIGNMENT")
	assign("government", "CLASSIFICATION_LEVEL", "SCI_MARKING", "DISSEMINATION_CONTROL", "CAGE_CODE",
		"DUNS_NUMBER", "UEI", "DOD_CONTRACT", "GSA_CONTRACT", "CLEARANCE_LEVEL", "ITAR_MARKING", "EAR_MARKING")
	assign("education", "STUDENT_ID", "FERPA_RECORD")
	assign("legal", "BAR_NUMBER", "CASE_NUMBER")
	assign("vehicle", "VIN", "LICENSE_PLATE")
	assign("immigration", "A_NUMBER", "VISA_NUMBER")
	assign("insurance", "POLICY_NUMBER", "CLAIM_NUMBER")
	assign("real_estate", "PARCEL_ID")
	assign("telecom", "IMEI", "ICCID")
	assign("biometric", "FINGERPRINT_TEMPLATE", "FACE_TEMPLATE")
	assign("military", "DOD_ID")
	assign("sensitive_file", "PRIVATE_KEY_FILE")
	assign("international_id", "NATIONAL_ID", "TAX_ID")
	assign("tracking", "TRACKING_NUMBER")
	return cats
}
