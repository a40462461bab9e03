package tokenize

import "strings"

// Stem applies the Porter stemming algorithm (steps 1a, 1b, 1c, 2, 3, 4,
// 5a, 5b) to a single lower-case word. Words of length <= 2 are returned
// unchanged. Stem is not idempotent for every word: Stem("agreed") is
// "agre", and Stem("agre") is "agr".
func Stem(word string) string {
	w := []byte(strings.ToLower(word))
	if len(w) <= 2 {
		return string(w)
	}

	w = step1a(w)
	w = step1b(w)
	w = step1c(w)
	w = step2(w)
	w = step3(w)
	w = step4(w)
	w = step5a(w)
	w = step5b(w)
	return string(w)
}

// isVowel reports whether the byte at position i in word is a vowel.
// 'y' counts as a vowel iff it is preceded by a consonant; a leading
// 'y', or one preceded by a vowel, is a consonant (the classic Porter
// definition).
func isVowel(word []byte, i int) bool {
	switch word[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	case 'y':
		return i > 0 && !isVowel(word, i-1)
	default:
		return false
	}
}

// measure counts the number of VC (vowel-to-consonant) transitions in
// word, i.e. the classic Porter "m" value.
func measure(word []byte) int {
	m := 0
	prevVowel := false
	for i := range word {
		cur := isVowel(word, i)
		if prevVowel && !cur {
			m++
		}
		prevVowel = cur
	}
	return m
}

// hasVowel reports whether word contains at least one vowel.
func hasVowel(word []byte) bool {
	for i := range word {
		if isVowel(word, i) {
			return true
		}
	}
	return false
}

// endsWithCVC reports whether word ends in consonant-vowel-consonant,
// with the final consonant not one of w, x, y.
func endsWithCVC(word []byte) bool {
	if len(word) < 3 {
		return false
	}
	i := len(word) - 3
	last := word[i+2]
	if isVowel(word, i) || !isVowel(word, i+1) || isVowel(word, i+2) {
		return false
	}
	switch last {
	case 'w', 'x', 'y':
		return false
	default:
		return true
	}
}

// replaceSuffix replaces suffix with replacement at the end of word if
// word ends with suffix, reporting whether a replacement was made.
func replaceSuffix(word []byte, suffix, replacement string) ([]byte, bool) {
	if !strings.HasSuffix(string(word), suffix) {
		return word, false
	}
	stem := word[:len(word)-len(suffix)]
	out := make([]byte, 0, len(stem)+len(replacement))
	out = append(out, stem...)
	out = append(out, replacement...)
	return out, true
}

// replaceSuffixCond replaces suffix with replacement only if word ends
// with suffix AND condition holds on the stem preceding the suffix.
func replaceSuffixCond(word []byte, suffix, replacement string, condition func([]byte) bool) ([]byte, bool) {
	if !strings.HasSuffix(string(word), suffix) {
		return word, false
	}
	stem := word[:len(word)-len(suffix)]
	if !condition(stem) {
		return word, false
	}
	out, _ := replaceSuffix(word, suffix, replacement)
	return out, true
}

func step1a(word []byte) []byte {
	if out, ok := replaceSuffix(word, "sses", "ss"); ok {
		return out
	}
	if out, ok := replaceSuffix(word, "ies", "i"); ok {
		return out
	}
	if out, ok := replaceSuffix(word, "ss", "ss"); ok {
		return out
	}
	if strings.HasSuffix(string(word), "s") {
		stem := word[:len(word)-1]
		if hasVowel(stem) {
			return stem
		}
	}
	return word
}

func step1b(word []byte) []byte {
	if strings.HasSuffix(string(word), "eed") {
		if out, ok := replaceSuffixCond(word, "eed", "ee", func(stem []byte) bool { return measure(stem) > 0 }); ok {
			return out
		}
		return word
	}

	modified := false
	original := append([]byte(nil), word...)

	if out, ok := replaceSuffix(word, "ed", ""); ok && hasVowel(out) {
		word = out
		modified = true
	} else {
		word = append([]byte(nil), original...)
	}

	if !modified {
		if out, ok := replaceSuffix(word, "ing", ""); ok && hasVowel(out) {
			word = out
			modified = true
		} else {
			word = append([]byte(nil), original...)
		}
	}

	if !modified {
		return word
	}

	if out, ok := replaceSuffix(word, "at", "ate"); ok {
		return out
	}
	if out, ok := replaceSuffix(word, "bl", "ble"); ok {
		return out
	}
	if out, ok := replaceSuffix(word, "iz", "ize"); ok {
		return out
	}

	if len(word) >= 2 {
		last := word[len(word)-1]
		prev := word[len(word)-2]
		if last == prev && !isVowel(word, len(word)-1) && last != 'l' && last != 's' && last != 'z' {
			return word[:len(word)-1]
		}
	}

	if measure(word) == 1 && endsWithCVC(word) {
		return append(word, 'e')
	}

	return word
}

func step1c(word []byte) []byte {
	if strings.HasSuffix(string(word), "y") {
		stem := word[:len(word)-1]
		if hasVowel(stem) {
			out := append([]byte(nil), stem...)
			return append(out, 'i')
		}
	}
	return word
}

var step2Suffixes = []struct{ suffix, replacement string }{
	{"ational", "ate"}, {"tional", "tion"}, {"enci", "ence"},
	{"anci", "ance"}, {"izer", "ize"}, {"abli", "able"},
	{"alli", "al"}, {"entli", "ent"}, {"eli", "e"},
	{"ousli", "ous"}, {"ization", "ize"}, {"ation", "ate"},
	{"ator", "ate"}, {"alism", "al"}, {"iveness", "ive"},
	{"fulness", "ful"}, {"ousness", "ous"}, {"aliti", "al"},
	{"iviti", "ive"}, {"biliti", "ble"},
}

func step2(word []byte) []byte {
	for _, s := range step2Suffixes {
		if out, ok := replaceSuffixCond(word, s.suffix, s.replacement, func(stem []byte) bool { return measure(stem) > 0 }); ok {
			return out
		}
	}
	return word
}

var step3Suffixes = []struct{ suffix, replacement string }{
	{"icate", "ic"}, {"ative", ""}, {"alize", "al"},
	{"iciti", "ic"}, {"ical", "ic"}, {"ful", ""},
	{"ness", ""},
}

func step3(word []byte) []byte {
	for _, s := range step3Suffixes {
		if out, ok := replaceSuffixCond(word, s.suffix, s.replacement, func(stem []byte) bool { return measure(stem) > 0 }); ok {
			return out
		}
	}
	return word
}

var step4Suffixes = []string{
	"al", "ance", "ence", "er", "ic", "able", "ible",
	"ant", "ement", "ment", "ent", "ou", "ism", "ate",
	"iti", "ous", "ive", "ize",
}

func step4(word []byte) []byte {
	for _, suffix := range step4Suffixes {
		if out, ok := replaceSuffixCond(word, suffix, "", func(stem []byte) bool { return measure(stem) > 1 }); ok {
			return out
		}
	}
	if out, ok := replaceSuffixCond(word, "ion", "", func(stem []byte) bool {
		if len(stem) == 0 {
			return false
		}
		last := stem[len(stem)-1]
		return (last == 's' || last == 't') && measure(stem) > 1
	}); ok {
		return out
	}
	return word
}

func step5a(word []byte) []byte {
	if strings.HasSuffix(string(word), "e") {
		stem := word[:len(word)-1]
		m := measure(stem)
		if m > 1 || (m == 1 && !endsWithCVC(stem)) {
			return stem
		}
	}
	return word
}

func step5b(word []byte) []byte {
	if measure(word) > 1 && len(word) >= 2 && word[len(word)-1] == 'l' && word[len(word)-2] == 'l' {
		return word[:len(word)-1]
	}
	return word
}
