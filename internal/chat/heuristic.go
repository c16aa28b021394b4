package chat

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/minhvu/jobchat/internal/dict"
)

// The offline classifier works entirely on normalized text (lowercase,
// diacritics stripped), so every table below is stored normalized.

// searchKeywords mark a message as a job-search request.
var searchKeywords = []string{
	"viec lam", "tim viec", "tuyen dung", "ung tuyen", "cong viec",
	"vi tri", "luong", "thuc tap", "tuyen", "viec", "job", "dev",
	"fresher", "intern", "hiring", "apply",
}

// cityAliases maps spelling variants to the canonical city name used
// for dictionary resolution.
var cityAliases = []struct {
	canonical string
	aliases   []string
}{
	{"Hồ Chí Minh", []string{"ho chi minh", "tp hcm", "tphcm", "sai gon", "saigon", "hcm", "sg"}},
	{"Hà Nội", []string{"ha noi", "hanoi", "hn"}},
	{"Đà Nẵng", []string{"da nang", "danang"}},
	{"Cần Thơ", []string{"can tho", "cantho"}},
	{"Hải Phòng", []string{"hai phong", "haiphong"}},
	{"Bình Dương", []string{"binh duong"}},
	{"Đồng Nai", []string{"dong nai", "bien hoa"}},
	{"Khánh Hòa", []string{"nha trang", "khanh hoa"}},
	{"Thừa Thiên Huế", []string{"thua thien hue", "hue"}},
	{"Bà Rịa - Vũng Tàu", []string{"vung tau", "ba ria"}},
}

// specialtyPattern captures a single role/skill term to use as the
// free-text query.
var specialtyPattern = regexp.MustCompile(`(?:^|[^a-z0-9])(flutter|react native|reactjs|react|vuejs|vue|angular|nodejs|node|golang|java|python|php|laravel|dotnet|ruby|kotlin|swift|android|ios|devops|tester|qa|backend|frontend|fullstack|blockchain|data|ai|designer|ui ux|marketing|sales|content|seo|ke toan|kiem toan|nhan su|telesale)(?:[^a-z0-9]|$)`)

// companyPattern captures the name following a company marker word.
var companyPattern = regexp.MustCompile(`(?:cong ty|cty|company)\s+([^,.;?!\n]{2,40})`)

// containsTerm reports whether term occurs in the normalized text.
// Terms of three characters or fewer must match a whole token to keep
// short aliases like "hcm" from firing inside other words.
func containsTerm(normText, term string) bool {
	if len(term) > 3 {
		return strings.Contains(normText, term)
	}
	for _, tok := range strings.Fields(normText) {
		if tok == term {
			return true
		}
	}
	return false
}

func containsSearchKeyword(normText string) bool {
	for _, kw := range searchKeywords {
		if containsTerm(normText, kw) {
			return true
		}
	}
	return false
}

func matchCity(normText string) (string, bool) {
	for _, city := range cityAliases {
		for _, alias := range city.aliases {
			if containsTerm(normText, alias) {
				return city.canonical, true
			}
		}
	}
	return "", false
}

// trailingParticles are interrogative tails that follow a company name
// in speech ("... công ty Sông Đà không?") but are not part of it.
var trailingParticles = map[string]bool{
	"khong": true, "ko": true, "a": true, "ha": true, "nhi": true,
	"vay": true, "the": true, "nao": true, "chua": true,
}

// rawSpan maps a byte range of the folded text back to the original
// runes it was derived from. Folding keeps the rune count, so the
// mapping is positional; on a count mismatch the folded slice is
// returned as-is.
func rawSpan(raw, folded string, start, end int) string {
	rawRunes := []rune(raw)
	if len(rawRunes) != utf8.RuneCountInString(folded) {
		return folded[start:end]
	}
	ri := utf8.RuneCountInString(folded[:start])
	rj := utf8.RuneCountInString(folded[:end])
	return string(rawRunes[ri:rj])
}

// matchCompany captures the name following a company marker, keeping
// the user's original accents and casing for the database filter.
func matchCompany(raw, folded string) string {
	m := companyPattern.FindStringSubmatchIndex(folded)
	if m == nil {
		return ""
	}
	name := strings.TrimSpace(rawSpan(raw, folded, m[2], m[3]))
	for {
		fields := strings.Fields(name)
		if len(fields) < 2 || !trailingParticles[dict.Normalize(fields[len(fields)-1])] {
			break
		}
		name = strings.Join(fields[:len(fields)-1], " ")
	}
	return name
}

// matchSpecialty captures the role/skill term with its original
// accents so it stays matchable against accented listing titles.
func matchSpecialty(raw, folded string) string {
	m := specialtyPattern.FindStringSubmatchIndex(folded)
	if m == nil {
		return ""
	}
	return rawSpan(raw, folded, m[2], m[3])
}

// heuristicIntent is the deterministic offline classifier used when
// the external classification is unavailable or unreliable.
func heuristicIntent(text string) Intent {
	// Matching runs on the folded text; captured terms are mapped back
	// to the original so accented values reach the database filters.
	folded := dict.Fold(text)
	normText := strings.TrimSpace(folded)

	// Repeat of the id shortcut; the fallback must stand on its own.
	if id, ok := matchIDRef(normText); ok {
		return Intent{Kind: IntentJobDetail, JobID: id, Page: 1, Source: "heuristic"}
	}

	if !containsSearchKeyword(normText) {
		return Intent{Kind: IntentChitchat, Page: 1, Source: "heuristic"}
	}

	var f SearchFilters
	if city, ok := matchCity(normText); ok {
		f.City = city
	}
	if company := matchCompany(text, folded); company != "" {
		f.Company = company
	}
	if kw := matchSpecialty(text, folded); kw != "" {
		f.Query = kw
	}
	return Intent{Kind: IntentSearchJobs, Search: f, Page: 1, Source: "heuristic"}
}
