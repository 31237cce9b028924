package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mdobak/go-xerrors"

	"github.com/lienswings/laundry-watch/service/config"
)

type httpService struct {
	CfgSvc config.IService
	Client *http.Client
}

// NewHTTP delivers notifications as a GET against <endpoint>/<label>,
// carrying the configured session cookie.
func NewHTTP(cfgsvc config.IService) IService {
	return &httpService{
		CfgSvc: cfgsvc,
		Client: &http.Client{
			Timeout: time.Duration(cfgsvc.GetNotifierParameters().TimeoutSeconds) * time.Second,
		},
	}
}

func (svc *httpService) Get(ctx context.Context, label string) (Outcome, error) {
	params := svc.CfgSvc.GetNotifierParameters()
	url := fmt.Sprintf("%s/%s", strings.TrimRight(params.Endpoint, "/"), label)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outcome{}, xerrors.New(err.Error())
	}

	// The endpoint expects the cookie attributes spelled out as plain
	// pairs in the request's Cookie header, not as response-cookie
	// attributes (which never travel on a request).
	req.AddCookie(&http.Cookie{Name: params.DismissWarningCookie, Value: "1"})
	req.AddCookie(&http.Cookie{Name: "max-age", Value: strconv.FormatInt(params.CookieMaxAge, 10)})
	req.AddCookie(&http.Cookie{Name: "path", Value: params.CookiePath})
	req.AddCookie(&http.Cookie{Name: "samesite", Value: params.CookieSameSite})
	if params.CookieSecure {
		req.AddCookie(&http.Cookie{Name: "secure", Value: ""})
	}

	start := time.Now()
	resp, err := svc.Client.Do(req)
	if err != nil {
		return Outcome{}, xerrors.New(err.Error())
	}
	defer resp.Body.Close()

	// The body is never interpreted, only drained so the connection can be
	// reused
	_, _ = io.Copy(io.Discard, resp.Body)

	outcome := Outcome{
		Status:  resp.Status,
		Code:    resp.StatusCode,
		Elapsed: time.Since(start),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return outcome, xerrors.New("notification endpoint returned " + resp.Status)
	}

	return outcome, nil
}
