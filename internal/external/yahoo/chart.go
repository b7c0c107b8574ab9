package yahoo

import (
	"errors"
	"fmt"
	"time"

	"github.com/wonny/aegis-quant/internal/contracts"
)

// Chart is the parsed daily chart of one symbol
type Chart struct {
	Symbol     string
	Name       string
	Currency   string
	History    contracts.PriceHistory
	High52Week float64
	Low52Week  float64
}

// chartResponse mirrors the v8 chart payload; series values may be null
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol           string  `json:"symbol"`
				Currency         string  `json:"currency"`
				LongName         string  `json:"longName"`
				ShortName        string  `json:"shortName"`
				GMTOffset        int64   `json:"gmtoffset"`
				FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ErrEmptyChart means the payload had no result rows
var ErrEmptyChart = errors.New("empty chart result")

// parseChart converts the payload to bars; rows with a null close/high/low
// and rows that do not advance the date are dropped
func parseChart(resp *chartResponse) (*Chart, error) {
	if e := resp.Chart.Error; e != nil {
		return nil, fmt.Errorf("chart error %s: %s", e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrEmptyChart
	}

	r := resp.Chart.Result[0]
	q := r.Indicators.Quote[0]

	name := r.Meta.LongName
	if name == "" {
		name = r.Meta.ShortName
	}

	chart := &Chart{
		Symbol:     r.Meta.Symbol,
		Name:       name,
		Currency:   r.Meta.Currency,
		High52Week: r.Meta.FiftyTwoWeekHigh,
		Low52Week:  r.Meta.FiftyTwoWeekLow,
		History:    make(contracts.PriceHistory, 0, len(r.Timestamp)),
	}

	at := func(series []*float64, i int) (float64, bool) {
		if i >= len(series) || series[i] == nil {
			return 0, false
		}
		return *series[i], true
	}

	for i, ts := range r.Timestamp {
		closeV, okC := at(q.Close, i)
		high, okH := at(q.High, i)
		low, okL := at(q.Low, i)
		if !okC || !okH || !okL {
			continue
		}
		open, _ := at(q.Open, i)
		volume, _ := at(q.Volume, i)

		// Session date in exchange time
		date := time.Unix(ts+r.Meta.GMTOffset, 0).UTC().Truncate(24 * time.Hour)
		if n := len(chart.History); n > 0 && !date.After(chart.History[n-1].Date) {
			continue
		}

		chart.History = append(chart.History, contracts.PriceBar{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closeV,
			Volume: volume,
		})
	}

	if len(chart.History) == 0 {
		return nil, ErrEmptyChart
	}
	return chart, nil
}
