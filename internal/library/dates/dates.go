package dates

import (
	"fmt"
	"time"
)

// 貸出期間（暦日）
const LoanPeriodDays = 10

// Due 貸出日から返却期限を求める。営業日ではなく暦日で数える。
func Due(issued time.Time) time.Time {
	return issued.AddDate(0, 0, LoanPeriodDays)
}

// Format YYYY-MM-DD 形式。月・日が1桁のときだけ0埋め、年はそのまま。
func Format(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%d-%02d-%02d", y, int(m), d)
}
