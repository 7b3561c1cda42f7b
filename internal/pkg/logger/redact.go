package logger

// RedactPhone masks a phone number for safe logging.
// "09012345678" → "090*****678"
// Numbers too short to split are fully masked.
func RedactPhone(phone string) string {
	if len(phone) < 7 {
		return "***"
	}
	masked := make([]byte, len(phone))
	for i := range masked {
		masked[i] = '*'
	}
	copy(masked[:3], phone[:3])
	copy(masked[len(masked)-3:], phone[len(phone)-3:])
	return string(masked)
}

// RedactName masks a customer name or name key, keeping the first rune.
// "ヤマダタロウ#山田太郎" → "ヤ***"
func RedactName(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return ""
	}
	return string(runes[0]) + "***"
}
