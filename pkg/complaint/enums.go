package complaint

// Category is a crime category or sub-category in its display form.
type Category string

const (
	CategoryOnlineFinancialFraud Category = "Online Financial Fraud"
	CategoryUPIFraud             Category = "UPI Fraud"
	CategoryCyberFraud           Category = "Cyber Fraud"
	CategoryBankingFraud         Category = "Banking Fraud"
	CategoryCardFraud            Category = "Card Fraud"
	CategoryDebitCardFraud       Category = "Debit Card Fraud"
	CategoryCreditCardFraud      Category = "Credit Card Fraud"
	CategoryPhishing             Category = "Phishing"
	CategoryIdentityTheft        Category = "Identity Theft"
	CategorySocialMediaFraud     Category = "Social Media Fraud"
)

// Platform is the payment channel the fraud went through.
type Platform string

const (
	PlatformPhonePe    Platform = "PhonePe"
	PlatformGooglePay  Platform = "Google Pay"
	PlatformGPay       Platform = "GPay"
	PlatformPaytm      Platform = "Paytm"
	PlatformAmazonPay  Platform = "Amazon Pay"
	PlatformBHIM       Platform = "BHIM"
	PlatformUPI        Platform = "UPI"
	PlatformIMPS       Platform = "IMPS"
	PlatformNEFT       Platform = "NEFT"
	PlatformRTGS       Platform = "RTGS"
	PlatformNetBanking Platform = "Net Banking"
	PlatformCard       Platform = "Card"
	PlatformUnknown    Platform = "Unknown"
)

// Status is the complaint's processing state at the portal.
type Status string

const (
	StatusUnderProcess        Status = "Under Process"
	StatusUnderEnquiry        Status = "Under Enquiry"
	StatusUnderInvestigation  Status = "Under Investigation"
	StatusComplaintAccepted   Status = "Complaint Accepted"
	StatusComplaintRegistered Status = "Complaint Registered"
	StatusFIRRegistered       Status = "FIR Registered"
	StatusClosed              Status = "Closed"
	StatusResolved            Status = "Resolved"
	StatusPending             Status = "Pending"
)

// ValidationStatus is the coarse verdict derived from the quality score.
type ValidationStatus string

const (
	Valid      ValidationStatus = "valid"
	Incomplete ValidationStatus = "incomplete"
)

// ErrorType classifies why a single file could not be processed.
type ErrorType string

const (
	ErrorInputNotFound      ErrorType = "InputNotFound"
	ErrorUnsupportedFormat  ErrorType = "UnsupportedFormat"
	ErrorEncodingExhausted  ErrorType = "EncodingExhausted"
	ErrorDocumentUnreadable ErrorType = "DocumentUnreadable"
	ErrorInternal           ErrorType = "Internal"
	ErrorCancelled          ErrorType = "Cancelled"
)
