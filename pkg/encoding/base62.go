package encoding

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	base     = uint64(62)
	maxLen   = 11 // digits needed for the largest uint64
)

// Base62Encode renders n in base 62.
func Base62Encode(n uint64) string {
	if n == 0 {
		return string(alphabet[0])
	}

	var chars [maxLen]byte
	k := maxLen
	for n > 0 {
		k--
		chars[k] = alphabet[n%base]
		n /= base
	}

	return string(chars[k:])
}
