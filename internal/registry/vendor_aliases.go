package registry

// Vendor-specific entity type names mapped to the canonical registry
// types above. Adapters (Macie, DLP, Purview, ...) MUST run their raw
// type strings through NormalizeType before anything downstream sees
// them. Aliases are grounded in the public entity-type vocabularies of
// AWS Macie, Microsoft Purview/DLP, and Google Cloud DLP.
func buildVendorAliases() map[string]string {
	return map[string]string{
		// AWS Macie
		"USA_SOCIAL_SECURITY_NUMBER": "SSN",
		"CREDIT_CARD_NUMBER":         "CREDIT_CARD",
		"USA_PASSPORT_NUMBER":        "PASSPORT",
		"USA_DRIVING_LICENSE":        "DRIVER_LICENSE",
		"BANK_ACCOUNT_NUMBER":        "BANK_ACCOUNT",
		"AWS_CREDENTIALS":            "AWS_ACCESS_KEY",

		// Microsoft Purview / DLP
		"U.S. Social Security Number (SSN)":   "SSN",
		"Credit Card Number":                  "CREDIT_CARD",
		"U.S. Individual Taxpayer Identification Number (ITIN)": "TAX_ID",
		"International Banking Account Number (IBAN)":           "IBAN",
		"SWIFT Code":                                             "SWIFT_BIC",
		"Azure Storage Account Key Generic":                      "AZURE_CONNECTION_STRING",

		// Google Cloud DLP infoTypes
		"US_SOCIAL_SECURITY_NUMBER": "SSN",
		"CREDIT_CARD_NUMBER_GCP":    "CREDIT_CARD",
		"US_PASSPORT":               "PASSPORT",
		"US_DRIVERS_LICENSE_NUMBER": "DRIVER_LICENSE",
		"IBAN_CODE":                 "IBAN",
		"US_BANK_ROUTING_MICR":      "ROUTING_NUMBER",

		// Presidio
		"US_SSN":           "SSN",
		"US_DRIVER_LICENSE": "DRIVER_LICENSE",
		"CRYPTO":           "BITCOIN_ADDRESS",
		"PERSON":           "FULL_NAME",
		"PHONE_NUMBER":     "PHONE_US",
		"EMAIL_ADDRESS":    "EMAIL",
		"IP_ADDRESS_PRESIDIO": "IP_ADDRESS",
	}
}
