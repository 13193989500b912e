// Package gforms implements the engine's repository and mutator over the
// Google Forms REST API.
package gforms

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	forms "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"formctl/internal/model"
)

// Options selects credentials and transport. With no CredentialsFile and no
// HTTPClient, Application Default Credentials are used.
type Options struct {
	CredentialsFile string
	// Endpoint overrides the API base URL (e.g. a local fake). It must end
	// with a slash.
	Endpoint   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	svc    *forms.Service
	logger *slog.Logger
}

func New(ctx context.Context, o Options) (*Client, error) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	switch {
	case o.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(o.HTTPClient))
	case strings.TrimSpace(o.CredentialsFile) != "":
		b, err := os.ReadFile(o.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, b, forms.FormsBodyScope)
		if err != nil {
			return nil, fmt.Errorf("parse credentials %s: %w", o.CredentialsFile, err)
		}
		opts = append(opts, option.WithCredentials(creds))
	default:
		creds, err := google.FindDefaultCredentials(ctx, forms.FormsBodyScope)
		if err != nil {
			return nil, fmt.Errorf("no credentials configured (set credentials_file or GOOGLE_APPLICATION_CREDENTIALS): %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if ep := strings.TrimSpace(o.Endpoint); ep != "" {
		if !strings.HasSuffix(ep, "/") {
			ep += "/"
		}
		opts = append(opts, option.WithEndpoint(ep))
	}

	svc, err := forms.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create forms client: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// Fetch reads the whole form.
func (c *Client) Fetch(ctx context.Context, formID string) (model.Snapshot, error) {
	f, err := c.svc.Forms.Get(formID).Context(ctx).Do()
	if err != nil {
		return model.Snapshot{}, remoteError(err)
	}
	snap := model.Snapshot{
		FormID:       f.FormId,
		RevisionID:   f.RevisionId,
		ResponderURI: f.ResponderUri,
		Items:        make([]model.Item, 0, len(f.Items)),
	}
	if f.Info != nil {
		snap.Info = model.FormInfo{Title: f.Info.Title, Description: f.Info.Description, DocumentTitle: f.Info.DocumentTitle}
	}
	for _, it := range f.Items {
		snap.Items = append(snap.Items, itemFromAPI(it))
	}
	c.logger.Debug("form fetched", "form", formID, "items", len(snap.Items), "revision", snap.RevisionID)
	return snap, nil
}

// Apply submits the batch as one batchUpdate call. WriteControl is left
// unset: the last writer wins.
func (c *Client) Apply(ctx context.Context, formID string, b model.Batch) (model.BatchResult, error) {
	reqs := make([]*forms.Request, 0, len(b.Ops))
	for i, op := range b.Ops {
		r, err := requestFor(op)
		if err != nil {
			return model.BatchResult{}, fmt.Errorf("op %d (%s): %w", i, op, err)
		}
		reqs = append(reqs, r)
	}

	resp, err := c.svc.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{Requests: reqs}).Context(ctx).Do()
	if err != nil {
		return model.BatchResult{}, remoteError(err)
	}

	out := model.BatchResult{Replies: make([]model.Reply, 0, len(resp.Replies))}
	for _, r := range resp.Replies {
		var rep model.Reply
		if r != nil && r.CreateItem != nil {
			rep.CreatedItemID = r.CreateItem.ItemId
		}
		out.Replies = append(out.Replies, rep)
	}
	if resp.WriteControl != nil {
		out.RevisionID = resp.WriteControl.RequiredRevisionId
	}
	return out, nil
}
