package gate

import (
	"encoding/json"
	"net/http"
	"testing"

	"fundarb/internal/application/port"
	"fundarb/internal/domain/model"
)

func TestContractRespMapping(t *testing.T) {
	raw := `{"name":"BTC_USDT","funding_rate":"0.0005","funding_interval":28800,"quanto_multiplier":"0.0001","mark_price":"43000.5","index_price":"43001.2","in_delisting":false}`
	var resp contractResp
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	c := resp.toModel()
	if c.Name != "BTC_USDT" {
		t.Errorf("name: %s", c.Name)
	}
	if c.FundingRate != 0.0005 {
		t.Errorf("funding rate: %f", c.FundingRate)
	}
	if c.FundingInterval != 28800 {
		t.Errorf("interval: %d", c.FundingInterval)
	}
	if c.QuantoMultiplier != 0.0001 {
		t.Errorf("quanto multiplier: %f", c.QuantoMultiplier)
	}
	if c.FundingRatePct() != 0.05 {
		t.Errorf("funding rate pct: %f", c.FundingRatePct())
	}
}

func TestFuturesOrderRespSignedSize(t *testing.T) {
	var resp futuresOrderResp
	raw := `{"id":123456,"contract":"ETH_USDT","size":-20,"price":"0","fill_price":"2000.5","status":"finished","finish_time":1700000000}`
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	o := resp.toModel()
	if o.ID != "123456" {
		t.Errorf("id: %s", o.ID)
	}
	if o.Side != model.SideSell {
		t.Errorf("negative size must map to sell, got %s", o.Side)
	}
	if o.Amount != 20 {
		t.Errorf("amount must be unsigned, got %f", o.Amount)
	}
	if o.AvgDealPrice != 2000.5 {
		t.Errorf("fill price: %f", o.AvgDealPrice)
	}
}

func TestSpotOrderRespMapping(t *testing.T) {
	raw := `{"id":"987","currency_pair":"ETH_USDT","side":"buy","amount":"402","price":"0","avg_deal_price":"2010.3","status":"closed","fee":"0.4","update_time_ms":1700000000123}`
	var resp spotOrderResp
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	o := resp.toModel()
	if !o.Closed() {
		t.Error("status closed must map to Closed()")
	}
	if o.Fee != 0.4 {
		t.Errorf("fee: %f", o.Fee)
	}
	if o.UpdateTimeMs != 1700000000123 {
		t.Errorf("update time: %d", o.UpdateTimeMs)
	}
}

func TestWalletTotalRespSpotDetail(t *testing.T) {
	raw := `{"total":{"currency":"USDT","amount":"1500.5"},"details":{"spot":{"currency":"USDT","amount":"600.25"},"futures":{"currency":"USDT","amount":"900.25"}}}`
	var resp walletTotalResp
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	b := resp.toModel()
	if b.Total != 1500.5 {
		t.Errorf("total: %f", b.Total)
	}
	if b.Spot != 600.25 {
		t.Errorf("spot: %f", b.Spot)
	}
}

func TestCandleRespMapping(t *testing.T) {
	raw := `["1700000000","120500.4","2000.1","2010.0","1995.5","2002.3","60.1"]`
	var resp candleResp
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	c := resp.toModel()
	if c.Timestamp != 1700000000 {
		t.Errorf("timestamp: %d", c.Timestamp)
	}
	if c.Close != 2000.1 || c.High != 2010.0 || c.Low != 1995.5 || c.Open != 2002.3 {
		t.Errorf("ohlc mismatch: %+v", c)
	}
}

func TestCandleRespShortArray(t *testing.T) {
	c := candleResp{"1700000000"}.toModel()
	if c.Timestamp != 1700000000 || c.Close != 0 {
		t.Errorf("short candle must zero-fill: %+v", c)
	}
}

func TestF64BadInput(t *testing.T) {
	if f64("") != 0 || f64("abc") != 0 {
		t.Error("unparseable strings must map to zero")
	}
	if f64("-1.5") != -1.5 {
		t.Error("negative numbers must parse")
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status int
		want   port.ErrorKind
	}{
		{http.StatusUnauthorized, port.KindAuth},
		{http.StatusForbidden, port.KindAuth},
		{http.StatusNotFound, port.KindNotFound},
		{http.StatusTooManyRequests, port.KindTransient},
		{http.StatusBadGateway, port.KindTransient},
		{http.StatusInternalServerError, port.KindTransient},
		{http.StatusBadRequest, port.KindRejected},
	}
	for _, tc := range cases {
		if got := classifyStatus(tc.status); got != tc.want {
			t.Errorf("status %d: expected %s, got %s", tc.status, tc.want, got)
		}
	}
}
