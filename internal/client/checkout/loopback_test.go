package checkout

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/expressdata/internal/logging"
)

type outcome struct {
	success []Response
	closes  int
}

func testOptions(o *outcome) Options {
	return Options{
		PublicKey: "pk_test_123",
		Email:     "ama@example.com",
		Amount:    500,
		Currency:  "GHS",
		Reference: "EXPRESS_1700000000000_user1234",
		Metadata: Metadata{CustomFields: []Field{
			{DisplayName: "Offer Name", VariableName: "offer_name", Value: "1GB"},
		}},
		OnSuccess: func(r Response) { o.success = append(o.success, r) },
		OnClose:   func() { o.closes++ },
	}
}

func post(t *testing.T, url, body string) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestSetup_Validation(t *testing.T) {
	w := NewLoopbackWidget("127.0.0.1:0", nil, 0, logging.Discard())

	tests := []struct {
		name   string
		mutate func(*Options)
		want   error
	}{
		{"missing key", func(o *Options) { o.PublicKey = "" }, ErrMissingKey},
		{"missing email", func(o *Options) { o.Email = "" }, ErrMissingEmail},
		{"zero amount", func(o *Options) { o.Amount = 0 }, ErrInvalidAmount},
		{"missing reference", func(o *Options) { o.Reference = "" }, ErrMissingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(&outcome{})
			tt.mutate(&opts)
			_, err := w.Setup(opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoopbackWidget_Success(t *testing.T) {
	var (
		o    outcome
		page string
	)
	w := NewLoopbackWidget("127.0.0.1:0", func(url string) error {
		resp, err := http.Get(url)
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		page = string(b)

		base := strings.TrimSuffix(url, "/")
		assert.Equal(t, http.StatusNoContent, post(t, base+successPath, `{"reference":"EXPRESS_1700000000000_user1234","status":"success"}`))
		// A late close must not produce a second callback.
		assert.Equal(t, http.StatusNoContent, post(t, base+closePath, ``))
		return nil
	}, 0, logging.Discard())

	h, err := w.Setup(testOptions(&o))
	require.NoError(t, err)
	require.NoError(t, h.Open(context.Background()))

	require.Len(t, o.success, 1)
	assert.Equal(t, "EXPRESS_1700000000000_user1234", o.success[0].Reference)
	assert.Equal(t, "success", o.success[0].Status)
	assert.Zero(t, o.closes)

	assert.Contains(t, page, "PaystackPop.setup")
	assert.Contains(t, page, inlineJSURL)
	assert.Contains(t, page, `"amount":500`)
	assert.Contains(t, page, `"currency":"GHS"`)
	assert.Contains(t, page, `"variable_name":"offer_name"`)
}

func TestLoopbackWidget_Close(t *testing.T) {
	var o outcome
	w := NewLoopbackWidget("127.0.0.1:0", func(url string) error {
		assert.Equal(t, http.StatusNoContent, post(t, strings.TrimSuffix(url, "/")+closePath, ``))
		return nil
	}, 0, logging.Discard())

	h, err := w.Setup(testOptions(&o))
	require.NoError(t, err)
	require.NoError(t, h.Open(context.Background()))

	assert.Empty(t, o.success)
	assert.Equal(t, 1, o.closes)
}

func TestLoopbackWidget_SuccessWithoutReferenceRejected(t *testing.T) {
	var o outcome
	w := NewLoopbackWidget("127.0.0.1:0", func(url string) error {
		base := strings.TrimSuffix(url, "/")
		assert.Equal(t, http.StatusBadRequest, post(t, base+successPath, `{}`))
		assert.Equal(t, http.StatusNoContent, post(t, base+closePath, ``))
		return nil
	}, 0, logging.Discard())

	h, err := w.Setup(testOptions(&o))
	require.NoError(t, err)
	require.NoError(t, h.Open(context.Background()))

	assert.Empty(t, o.success)
	assert.Equal(t, 1, o.closes)
}

func TestLoopbackWidget_ContextCancelCountsAsClose(t *testing.T) {
	var o outcome
	w := NewLoopbackWidget("127.0.0.1:0", func(string) error { return nil }, 0, logging.Discard())

	h, err := w.Setup(testOptions(&o))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, h.Open(ctx))

	assert.Empty(t, o.success)
	assert.Equal(t, 1, o.closes)
}

func TestLoopbackWidget_OpenTwice(t *testing.T) {
	var o outcome
	w := NewLoopbackWidget("127.0.0.1:0", func(url string) error {
		post(t, strings.TrimSuffix(url, "/")+closePath, ``)
		return nil
	}, 0, logging.Discard())

	h, err := w.Setup(testOptions(&o))
	require.NoError(t, err)
	require.NoError(t, h.Open(context.Background()))
	assert.ErrorIs(t, h.Open(context.Background()), ErrAlreadyOpened)
	assert.Equal(t, 1, o.closes)
}

func TestLoopbackWidget_OpenerFails(t *testing.T) {
	boom := errors.New("no browser")
	var o outcome
	w := NewLoopbackWidget("127.0.0.1:0", func(string) error { return boom }, 0, logging.Discard())

	h, err := w.Setup(testOptions(&o))
	require.NoError(t, err)
	assert.ErrorIs(t, h.Open(context.Background()), boom)
	assert.Zero(t, o.closes)
}

func TestLoopbackWidget_AbandonedPageTimesOut(t *testing.T) {
	var o outcome
	// The page is never loaded, so neither callback is posted.
	w := NewLoopbackWidget("127.0.0.1:0", func(string) error { return nil }, 100*time.Millisecond, logging.Discard())

	h, err := w.Setup(testOptions(&o))
	require.NoError(t, err)

	errc := make(chan error, 1)
	go func() { errc <- h.Open(context.Background()) }()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Open did not return after the checkout timeout")
	}
	assert.Empty(t, o.success)
	assert.Equal(t, 1, o.closes)
}

func TestLoopbackWidget_PageReportsCloseOnUnload(t *testing.T) {
	var page string
	w := NewLoopbackWidget("127.0.0.1:0", func(url string) error {
		resp, err := http.Get(url)
		require.NoError(t, err)
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		page = string(b)
		post(t, strings.TrimSuffix(url, "/")+closePath, ``)
		return nil
	}, 0, logging.Discard())

	h, err := w.Setup(testOptions(&outcome{}))
	require.NoError(t, err)
	require.NoError(t, h.Open(context.Background()))

	assert.Contains(t, page, `addEventListener("pagehide"`)
	assert.Contains(t, page, `navigator.sendBeacon(`)
}
