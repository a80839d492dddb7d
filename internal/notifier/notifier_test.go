package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"PricePredictor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

func okBody(status int) string {
	if status == http.StatusOK {
		return `{"ok":true,"result":{}}`
	}
	return `{"ok":false,"description":"Bad Request: chat not found"}`
}

func fakeTelegram(t *testing.T, status int) (*TelegramNotifier, *[]sentMessage) {
	t.Helper()
	var (
		mu   sync.Mutex
		sent []sentMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/bottoken/sendMessage"))
		var m sentMessage
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		mu.Lock()
		sent = append(sent, m)
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(okBody(status)))
	}))
	t.Cleanup(srv.Close)

	tn := NewTelegramNotifier("token", "100", "")
	tn.BaseURL = srv.URL
	return tn, &sent
}

func TestSendTo(t *testing.T) {
	tn, sent := fakeTelegram(t, http.StatusOK)

	require.NoError(t, tn.Send("hello"))
	require.NoError(t, tn.SendTo("200", "<b>hi</b>"))

	require.Len(t, *sent, 2)
	assert.Equal(t, sentMessage{ChatID: "100", Text: "hello", ParseMode: "HTML"}, (*sent)[0])
	assert.Equal(t, "200", (*sent)[1].ChatID)
}

func TestSendTo_APIError(t *testing.T) {
	tn, _ := fakeTelegram(t, http.StatusBadRequest)
	err := tn.Send("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendWithRetry_ContextCancelled(t *testing.T) {
	tn, sent := fakeTelegram(t, http.StatusInternalServerError)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tn.SendWithRetry(ctx, "100", "hello", 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, *sent, 1)
}

func TestDispatch_RepliesToSenderChat(t *testing.T) {
	tn, sent := fakeTelegram(t, http.StatusOK)

	var update telegramUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"update_id":7,"message":{"text":" /stock TCS.NS ","chat":{"id":555}}}`), &update))

	var got string
	tn.dispatch(context.Background(), update, func(cmd string) []string {
		got = cmd
		return []string{"one", "", "two"}
	})

	assert.Equal(t, "/stock TCS.NS", got)
	require.Len(t, *sent, 2)
	assert.Equal(t, "555", (*sent)[0].ChatID)
	assert.Equal(t, "two", (*sent)[1].Text)
}

func TestDispatch_IgnoresNonText(t *testing.T) {
	tn, sent := fakeTelegram(t, http.StatusOK)
	called := false
	tn.dispatch(context.Background(), telegramUpdate{UpdateID: 1}, func(string) []string {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.Empty(t, *sent)
}

func TestStartPolling(t *testing.T) {
	var served sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			body := `{"ok":true,"result":[]}`
			served.Do(func() {
				body = `{"ok":true,"result":[{"update_id":1,"message":{"text":"/help","chat":{"id":9}}}]}`
			})
			_, _ = w.Write([]byte(body))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "100", "")
	tn.BaseURL = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	commands := make(chan string, 1)
	go func() {
		defer close(done)
		tn.StartPolling(ctx, func(cmd string) []string {
			commands <- cmd
			cancel()
			return nil
		})
	}()

	select {
	case cmd := <-commands:
		assert.Equal(t, "/help", cmd)
	case <-time.After(5 * time.Second):
		t.Fatal("no command received")
	}
	<-done
}

func sampleReport(rows int) *model.Report {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &model.Report{
		Request:    model.Request{Kind: model.KindStock, Identifier: "TCS.NS"},
		Summary:    model.SeriesSummary{LatestPrice: 3500, LatestDate: start.AddDate(0, 0, -1), SMA200: 3400, High52w: 3600, Low52w: 3000, Position52w: 0.83},
		CutoffYear: 2024,
		Points:     700,
		Chart:      model.Chart{HistoryEnd: start.AddDate(0, 0, 9)},
	}
	for i := 0; i < rows; i++ {
		v := 3500 + float64(i)
		r.Rows = append(r.Rows, model.ForecastRow{Time: start.AddDate(0, 0, i), Yhat: v, YhatLower: v - 50, YhatUpper: v + 50})
	}
	return r
}

func TestFormatReport(t *testing.T) {
	pages := FormatReport(sampleReport(100))

	// header + ceil(100/31) table pages
	require.Len(t, pages, 1+4)
	assert.Contains(t, pages[0], "Stock forecast | TCS.NS")
	assert.Contains(t, pages[0], "3,500.00")
	assert.Contains(t, pages[0], "90 beyond the last close")
	for _, p := range pages {
		assert.LessOrEqual(t, len(p), MaxMessageLen)
	}
	for _, p := range pages[1:] {
		assert.True(t, strings.HasPrefix(p, "<pre>"))
		assert.True(t, strings.HasSuffix(p, "</pre>"))
	}
	assert.Contains(t, pages[1], "2024-01-01")
	assert.Contains(t, pages[4], "2024-04-09")
	assert.NotContains(t, pages[0], "Showing the last")
}

func TestFormatReport_CapsLongHistory(t *testing.T) {
	r := sampleReport(1000)
	pages := FormatReport(r)

	require.Len(t, pages, 1+MaxTablePages)
	assert.Contains(t, pages[0], "Showing the last 124 of 1000 rows")
	assert.NotContains(t, pages[1], "2024-01-01")
	last := r.Rows[len(r.Rows)-1].Time.Format("2006-01-02")
	assert.Contains(t, pages[MaxTablePages], last)
	for _, p := range pages {
		assert.LessOrEqual(t, len(p), MaxMessageLen)
	}
}

func TestFormatHelpAndError(t *testing.T) {
	help := FormatHelp("TCS.NS", "HDFC.MF")
	assert.Contains(t, help, "/stock &lt;ticker&gt;")
	assert.Contains(t, help, "HDFC.MF")

	assert.Equal(t, "❌ a &lt;b&gt;", FormatError("a <b>"))
	assert.Contains(t, FormatAbout(), "not financial advice")
}
