package i18n

// Message keys mirror the resource names of the localization bundle.
const (
	KeyInvalidCredentials  = "InvalidCredentials"
	KeyUserAlreadyExists   = "UserAlreadyExists"
	KeyInvalidRefreshToken = "InvalidRefreshToken"
	KeyEmailAlreadyExists  = "EmailAlreadyExists"
	KeyRoleAlreadyExists   = "RoleAlreadyExists"
	KeyForbidden           = "Forbidden"
	KeyNotFound            = "NotFound"
	KeyUnauthorized        = "Unauthorized"
	KeyInvalidBody         = "InvalidBody"
	KeyLoginError          = "LoginError"
	KeyLoggedOut           = "LoggedOut"
)

var catalog = map[string]map[string]string{
	"en": {
		KeyInvalidCredentials:  "Invalid username or password",
		KeyUserAlreadyExists:   "User already exists",
		KeyInvalidRefreshToken: "Invalid refresh token",
		KeyEmailAlreadyExists:  "Email already exists",
		KeyRoleAlreadyExists:   "Role already exists",
		KeyForbidden:           "You do not have permission to perform this action",
		KeyNotFound:            "Not found",
		KeyUnauthorized:        "Authentication required",
		KeyInvalidBody:         "Invalid request body",
		KeyLoginError:          "An error occurred during login. Please try again.",
		KeyLoggedOut:           "Logged out",
	},
	"hi": {
		KeyInvalidCredentials:  "अमान्य उपयोगकर्ता नाम या पासवर्ड",
		KeyUserAlreadyExists:   "उपयोगकर्ता पहले से मौजूद है",
		KeyInvalidRefreshToken: "अमान्य रिफ्रेश टोकन",
		KeyEmailAlreadyExists:  "ईमेल पहले से मौजूद है",
		KeyRoleAlreadyExists:   "भूमिका पहले से मौजूद है",
		KeyForbidden:           "आपको यह कार्य करने की अनुमति नहीं है",
		KeyNotFound:            "नहीं मिला",
		KeyUnauthorized:        "प्रमाणीकरण आवश्यक है",
		KeyInvalidBody:         "अमान्य अनुरोध",
		KeyLoginError:          "लॉगिन के दौरान एक त्रुटि हुई। कृपया पुनः प्रयास करें।",
		KeyLoggedOut:           "लॉग आउट हो गया",
	},
	"bn": {
		KeyInvalidCredentials:  "অবৈধ ব্যবহারকারীর নাম বা পাসওয়ার্ড",
		KeyUserAlreadyExists:   "ব্যবহারকারী ইতিমধ্যে বিদ্যমান",
		KeyInvalidRefreshToken: "অবৈধ রিফ্রেশ টোকেন",
		KeyEmailAlreadyExists:  "ইমেল ইতিমধ্যে বিদ্যমান",
		KeyRoleAlreadyExists:   "ভূমিকা ইতিমধ্যে বিদ্যমান",
		KeyForbidden:           "আপনার এই কাজটি করার অনুমতি নেই",
		KeyNotFound:            "পাওয়া যায়নি",
		KeyUnauthorized:        "প্রমাণীকরণ প্রয়োজন",
		KeyInvalidBody:         "অবৈধ অনুরোধ",
		KeyLoginError:          "লগইনের সময় একটি ত্রুটি ঘটেছে। অনুগ্রহ করে আবার চেষ্টা করুন।",
		KeyLoggedOut:           "লগ আউট হয়েছে",
	},
}
