package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TrendUp   = "up"
	TrendDown = "down"
)

// Sale is the slice of an order the aggregator needs.
type Sale struct {
	CreatedAt time.Time
	Total     decimal.Decimal
	Lines     []SaleLine
}

// SaleLine is one product line of a sale.
type SaleLine struct {
	ProductName string
	Quantity    int
}

// ProductRank names a product and its units sold.
type ProductRank struct {
	Name  string `json:"name"`
	Units int    `json:"units"`
}

// DayRank names a calendar day and its revenue.
type DayRank struct {
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
}

// HourRank names an hour of day and its revenue.
type HourRank struct {
	Hour    int             `json:"hour"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Report is the folded view of the order history.
type Report struct {
	TotalRevenue     decimal.Decimal            `json:"totalRevenue"`
	TotalUnitsSold   int                        `json:"totalUnitsSold"`
	TotalOrders      int                        `json:"totalOrders"`
	ThisMonthRevenue decimal.Decimal            `json:"thisMonthRevenue"`
	LastMonthRevenue decimal.Decimal            `json:"lastMonthRevenue"`
	Trend            string                     `json:"trend"`
	PercentChange    decimal.Decimal            `json:"percentChange"`
	RevenueByMonth   map[string]decimal.Decimal `json:"revenueByMonth"`
	RevenueByDay     map[string]decimal.Decimal `json:"revenueByDay"`
	RevenueByHour    map[int]decimal.Decimal    `json:"revenueByHour"`
	UnitsByProduct   map[string]int             `json:"unitsByProduct"`
	BestSelling      *ProductRank               `json:"bestSellingProduct"`
	LeastSelling     *ProductRank               `json:"leastSellingProduct"`
	BusiestDay       *DayRank                   `json:"busiestDay"`
	LeastBusyDay     *DayRank                   `json:"leastBusyDay"`
	BusiestHour      *HourRank                  `json:"busiestHour"`
	LeastBusyHour    *HourRank                  `json:"leastBusyHour"`
}

// Fold aggregates sales as seen from now in loc. Buckets use the cafe's
// local calendar.
func Fold(sales []Sale, now time.Time, loc *time.Location) Report {
	report := Report{
		TotalRevenue:   decimal.Zero,
		RevenueByMonth: map[string]decimal.Decimal{},
		RevenueByDay:   map[string]decimal.Decimal{},
		RevenueByHour:  map[int]decimal.Decimal{},
		UnitsByProduct: map[string]int{},
	}

	for _, sale := range sales {
		local := sale.CreatedAt.In(loc)
		report.TotalOrders++
		report.TotalRevenue = report.TotalRevenue.Add(sale.Total)
		month := local.Format("2006-01")
		day := local.Format("2006-01-02")
		report.RevenueByMonth[month] = report.RevenueByMonth[month].Add(sale.Total)
		report.RevenueByDay[day] = report.RevenueByDay[day].Add(sale.Total)
		report.RevenueByHour[local.Hour()] = report.RevenueByHour[local.Hour()].Add(sale.Total)
		for _, line := range sale.Lines {
			report.TotalUnitsSold += line.Quantity
			report.UnitsByProduct[line.ProductName] += line.Quantity
		}
	}

	current := now.In(loc)
	thisMonth := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, loc)
	report.ThisMonthRevenue = report.RevenueByMonth[thisMonth.Format("2006-01")]
	report.LastMonthRevenue = report.RevenueByMonth[thisMonth.AddDate(0, -1, 0).Format("2006-01")]
	report.Trend = Trend(report.LastMonthRevenue, report.ThisMonthRevenue)
	report.PercentChange = PercentChange(report.LastMonthRevenue, report.ThisMonthRevenue)

	report.BestSelling, report.LeastSelling = rankProducts(report.UnitsByProduct)
	report.BusiestDay, report.LeastBusyDay = rankDays(report.RevenueByDay)
	report.BusiestHour, report.LeastBusyHour = rankHours(report.RevenueByHour)
	return report
}

// Trend is down only when last month beat this month and was nonzero.
func Trend(last, this decimal.Decimal) string {
	if !last.IsZero() && last.GreaterThan(this) {
		return TrendDown
	}
	return TrendUp
}

// PercentChange is the month-over-month change rounded to two places; a
// zero last month reads as 100.
func PercentChange(last, this decimal.Decimal) decimal.Decimal {
	if last.IsZero() {
		return decimal.NewFromInt(100)
	}
	return this.Sub(last).Div(last).Mul(decimal.NewFromInt(100)).Round(2)
}

func rankProducts(units map[string]int) (best, least *ProductRank) {
	names := make([]string, 0, len(units))
	for name := range units {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		n := units[name]
		if best == nil || n > best.Units {
			best = &ProductRank{Name: name, Units: n}
		}
		if least == nil || n < least.Units {
			least = &ProductRank{Name: name, Units: n}
		}
	}
	return best, least
}

func rankDays(revenue map[string]decimal.Decimal) (busiest, quietest *DayRank) {
	days := make([]string, 0, len(revenue))
	for day := range revenue {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		amount := revenue[day]
		if busiest == nil || amount.GreaterThan(busiest.Revenue) {
			busiest = &DayRank{Day: day, Revenue: amount}
		}
		if quietest == nil || amount.LessThan(quietest.Revenue) {
			quietest = &DayRank{Day: day, Revenue: amount}
		}
	}
	return busiest, quietest
}

func rankHours(revenue map[int]decimal.Decimal) (busiest, quietest *HourRank) {
	hours := make([]int, 0, len(revenue))
	for hour := range revenue {
		hours = append(hours, hour)
	}
	sort.Ints(hours)
	for _, hour := range hours {
		amount := revenue[hour]
		if busiest == nil || amount.GreaterThan(busiest.Revenue) {
			busiest = &HourRank{Hour: hour, Revenue: amount}
		}
		if quietest == nil || amount.LessThan(quietest.Revenue) {
			quietest = &HourRank{Hour: hour, Revenue: amount}
		}
	}
	return busiest, quietest
}
