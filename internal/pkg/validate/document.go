package validate

// DocumentKind selects the national identifier format to check.
type DocumentKind int

const (
	// KindCPF is the 11-digit individual taxpayer number.
	KindCPF DocumentKind = iota
	// KindCNPJ is the 14-digit company registry number.
	KindCNPJ
)

const (
	cpfLength  = 11
	cnpjLength = 14
)

// DocumentIdentifier strips non-digits from id and checks it as kind.
func DocumentIdentifier(id string, kind DocumentKind) string {
	digits := onlyDigits(id)

	if kind == KindCNPJ {
		if len(digits) != cnpjLength {
			return "CNPJ must have 14 digits"
		}
		if !validCNPJ(digits) {
			return "Invalid CNPJ"
		}
		return ""
	}

	if len(digits) != cpfLength {
		return "CPF must have 11 digits"
	}
	if !validCPF(digits) {
		return "Invalid CPF"
	}
	return ""
}

// IsCPF reports whether id is a well-formed CPF. Formatting characters are ignored.
func IsCPF(id string) bool {
	digits := onlyDigits(id)
	return len(digits) == cpfLength && validCPF(digits)
}

// IsCNPJ reports whether id is a well-formed CNPJ. Formatting characters are ignored.
func IsCNPJ(id string) bool {
	digits := onlyDigits(id)
	return len(digits) == cnpjLength && validCNPJ(digits)
}

func onlyDigits(s string) []int {
	digits := make([]int, 0, len(s))
	for _, c := range s {
		if c >= '0' && c <= '9' {
			digits = append(digits, int(c-'0'))
		}
	}
	return digits
}

func allSame(digits []int) bool {
	for _, d := range digits[1:] {
		if d != digits[0] {
			return false
		}
	}
	return true
}

// validCPF expects exactly 11 digits. Check digit n is (sum * 10) mod 11 over
// weights counting down to 2, with 10 folded to 0.
func validCPF(d []int) bool {
	if allSame(d) {
		return false
	}

	cpfCheck := func(n int) int {
		sum := 0
		for i := 0; i < n; i++ {
			sum += d[i] * (n + 1 - i)
		}
		check := (sum * 10) % 11
		if check == 10 {
			check = 0
		}
		return check
	}

	return cpfCheck(9) == d[9] && cpfCheck(10) == d[10]
}

// validCNPJ expects exactly 14 digits. Weights cycle 2..9 from the rightmost
// digit; remainders below 2 give check digit 0.
func validCNPJ(d []int) bool {
	if allSame(d) {
		return false
	}

	cnpjCheck := func(n int) int {
		sum, weight := 0, 2
		for i := n - 1; i >= 0; i-- {
			sum += d[i] * weight
			weight++
			if weight > 9 {
				weight = 2
			}
		}
		if rem := sum % 11; rem >= 2 {
			return 11 - rem
		}
		return 0
	}

	return cnpjCheck(12) == d[12] && cnpjCheck(13) == d[13]
}
