package logger

import "strings"

// MaskLogin obscures an API login for log output. Credentials are
// session-scoped and must never appear in logs in full; only enough of the
// login survives to correlate log lines with an account.
func MaskLogin(login string) string {
	if login == "" {
		return ""
	}

	// Logins are usually email addresses; keep the first two characters of
	// the local part and the full domain.
	if at := strings.IndexByte(login, '@'); at > 0 {
		local := login[:at]
		if len(local) > 2 {
			local = local[:2] + "***"
		} else {
			local = "***"
		}
		return local + login[at:]
	}

	if len(login) <= 4 {
		return "***"
	}
	return login[:2] + "***" + login[len(login)-2:]
}
