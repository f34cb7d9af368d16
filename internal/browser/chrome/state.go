package chrome

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/domstorage"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

// State is the persisted page state for targets behind a login: cookies and
// local storage, serialized to a JSON file between runs.
type State struct {
	Cookies      []*network.CookieParam `json:"cookies"`
	LocalStorage map[string]string      `json:"local_storage"`
}

// SaveState writes the tab's cookies and local storage to path.
func (p *Page) SaveState(path string) error {
	cookies, err := GetCookies(p.ctx)
	if err != nil {
		return err
	}
	localStorage, err := p.GetLocalStorages()
	if err != nil {
		log.Debugf("error reading local storage: %v", err)
		localStorage = map[string]string{}
	}

	state := State{
		Cookies:      cookieParams(cookies),
		LocalStorage: localStorage,
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	log.Debugf("Saved page state to %s", path)
	return nil
}

// LoadState restores cookies and local storage from path, if the file
// exists, and reloads the page so the target sees them.
func (p *Page) LoadState(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read state file %s: %w", path, err)
	}

	var state State
	if err = json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to unmarshal state file %s: %w", path, err)
	}

	if err = SetCookies(p.ctx, state.Cookies); err != nil {
		return err
	}
	if err = p.SetLocalStorages(state.LocalStorage); err != nil {
		log.Debugf("error writing local storage: %v", err)
	}

	if err = chromedp.Run(p.ctx, chromedp.Reload()); err != nil {
		return fmt.Errorf("failed to reload page after state load: %w", err)
	}
	log.Debugf("Loaded page state from %s", path)
	return nil
}

// SetCookies installs cookies into the page's network stack.
func SetCookies(pageCtx context.Context, cookies []*network.CookieParam) error {
	if len(cookies) == 0 {
		return nil
	}

	err := chromedp.Run(pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(cookies).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}
	return nil
}

// GetCookies reads every cookie visible to the page.
func GetCookies(pageCtx context.Context) ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(pageCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to get cookies: %w", err)
	}
	return cookies, nil
}

// SetLocalStorages writes the given items into the page origin's local
// storage.
func (p *Page) SetLocalStorages(items map[string]string) error {
	storageID, err := p.storageID()
	if err != nil {
		return err
	}
	return chromedp.Run(p.ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			for key, value := range items {
				if err := domstorage.SetDOMStorageItem(storageID, key, value).Do(ctx); err != nil {
					return err
				}
			}
			return nil
		}),
	)
}

// GetLocalStorages reads the page origin's local storage.
func (p *Page) GetLocalStorages() (map[string]string, error) {
	storageID, err := p.storageID()
	if err != nil {
		return nil, err
	}
	var items []domstorage.Item
	err = chromedp.Run(p.ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var errGetItems error
			items, errGetItems = domstorage.GetDOMStorageItems(storageID).Do(ctx)
			return errGetItems
		}),
	)
	if err != nil {
		return nil, err
	}
	localStorage := make(map[string]string)
	for _, item := range items {
		localStorage[item[0]] = item[1]
	}
	return localStorage, nil
}

func (p *Page) storageID() (*domstorage.StorageID, error) {
	parsedURL, err := url.Parse(p.URL)
	if err != nil {
		return nil, err
	}
	return &domstorage.StorageID{
		SecurityOrigin: fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host),
		IsLocalStorage: true,
	}, nil
}

func cookieParams(cookies []*network.Cookie) []*network.CookieParam {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, c := range cookies {
		expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
		params = append(params, &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HTTPOnly,
			SameSite: c.SameSite,
			Expires:  &expires,
		})
	}
	return params
}
