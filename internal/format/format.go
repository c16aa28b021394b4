// Package format renders resolved listing rows into the compact text
// blocks injected into the assistant prompt or returned directly on
// the degraded path. Output is deterministic: identical rows always
// produce identical bytes.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/minhvu/jobchat/internal/db"
)

// Vietnamese grouping: 15000000 -> "15.000.000".
var printer = message.NewPrinter(language.Vietnamese)

// NoResults is the fixed reply for an empty search result.
const NoResults = "Không tìm thấy tin tuyển dụng phù hợp.\n" +
	"Bạn thử mở rộng tiêu chí xem sao: thêm thành phố, khoảng lương hoặc số năm kinh nghiệm.\n" +
	`Ví dụ: "tìm việc kế toán ở Hà Nội lương từ 10 triệu".`

// Money renders a salary bound with thousands grouping, "-" when absent.
func Money(v *int64) string {
	if v == nil {
		return "-"
	}
	return printer.Sprintf("%d", *v)
}

// Date renders a deadline as dd/mm/yyyy, "-" when absent.
func Date(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

func workMode(remote bool) string {
	if remote {
		return "remote"
	}
	return "onsite"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func listingLine(l db.Listing) string {
	return fmt.Sprintf("#%d | %s — %s | %s | %s–%s | %s | %s | %s",
		l.ID, l.Title, l.CompanyName, orDash(l.Location),
		Money(l.SalaryMin), Money(l.SalaryMax),
		Date(l.Deadline), orDash(l.JobType), workMode(l.Remote))
}

// List renders one page of search results, or NoResults for an empty
// result.
func List(res *db.SearchResult) string {
	if res == nil || res.Total == 0 {
		return NoResults
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tìm thấy %d tin phù hợp (trang %d/%d):\n", res.Total, res.Page, res.Pages())
	for _, l := range res.Items {
		b.WriteString(listingLine(l))
		b.WriteByte('\n')
	}
	b.WriteString(`Nhắn "trang 2" để xem tiếp, hoặc "ứng tuyển #<mã tin>" để nộp hồ sơ.`)
	return b.String()
}

// Detail renders one listing as a labeled block, ending with the
// application instruction for its id.
func Detail(l *db.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vị trí: %s\n", l.Title)
	fmt.Fprintf(&b, "Công ty: %s\n", l.CompanyName)
	fmt.Fprintf(&b, "Địa điểm: %s\n", orDash(l.Location))
	fmt.Fprintf(&b, "Mức lương: %s–%s\n", Money(l.SalaryMin), Money(l.SalaryMax))
	fmt.Fprintf(&b, "Hạn nộp: %s\n", Date(l.Deadline))
	fmt.Fprintf(&b, "Loại hình: %s\n", orDash(l.JobType))
	fmt.Fprintf(&b, "Hình thức: %s\n", workMode(l.Remote))
	if desc := strings.TrimSpace(l.Description); desc != "" {
		fmt.Fprintf(&b, "Mô tả: %s\n", desc)
	}
	fmt.Fprintf(&b, `Để ứng tuyển, nhắn "ứng tuyển #%d".`, l.ID)
	return b.String()
}
