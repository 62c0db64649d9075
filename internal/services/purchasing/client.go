package purchasing

import (
	"fmt"

	"github.com/kolo/xmlrpc"
)

// Client talks XML-RPC to the external purchasing system (an Odoo-style ERP:
// /xmlrpc/2/common for authentication, /xmlrpc/2/object for model calls).
type Client struct {
	URL       string
	Database  string
	Username  string
	Password  string
	Uid       int
	CommonURL string
	ObjectURL string
}

// NewClient creates a new purchasing client
func NewClient(url, db, username, password string) *Client {
	return &Client{
		URL:       url,
		Database:  db,
		Username:  username,
		Password:  password,
		CommonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		ObjectURL: fmt.Sprintf("%s/xmlrpc/2/object", url),
	}
}

// Authenticate authenticates with the purchasing system and stores the uid
func (c *Client) Authenticate() (int, error) {
	client, err := xmlrpc.NewClient(c.CommonURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.Database, c.Username, c.Password, make([]interface{}, 0)}
	var uid int
	if err := client.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("authentication failed: %w", err)
	}

	c.Uid = uid
	return uid, nil
}

// Create creates one record of the given model and returns its remote id.
func (c *Client) Create(model string, values map[string]interface{}) (int64, error) {
	client, err := xmlrpc.NewClient(c.ObjectURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{
		c.Database,
		c.Uid,
		c.Password,
		model,
		"create",
		[]interface{}{values},
	}

	var id int64
	if err := client.Call("execute_kw", args, &id); err != nil {
		return 0, fmt.Errorf("failed to execute create: %w", err)
	}

	return id, nil
}
