package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req, resp any) error {
	return c.client.Call(ServiceName+"."+method, req, resp)
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health asks the daemon to probe the AI backend.
func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.call("Health", HealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shutdown asks the daemon process to exit.
func (c *Client) Shutdown() (*ShutdownResponse, error) {
	var resp ShutdownResponse
	if err := c.call("Shutdown", ShutdownRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transcribe creates a new session from the given files.
func (c *Client) Transcribe(title, course string, paths []string) (*TranscribeResponse, error) {
	var resp TranscribeResponse
	req := TranscribeRequest{Title: title, Course: course, Paths: paths}
	if err := c.call("Transcribe", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegenerateNotes produces a new notes version for a session.
func (c *Client) RegenerateNotes(id string) (*RegenerateNotesResponse, error) {
	var resp RegenerateNotesResponse
	if err := c.call("RegenerateNotes", RegenerateNotesRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryList returns all sessions newest first.
func (c *Client) LibraryList() (*LibraryListResponse, error) {
	var resp LibraryListResponse
	if err := c.call("LibraryList", LibraryListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryShow returns a single session.
func (c *Client) LibraryShow(id string) (*LibraryShowResponse, error) {
	var resp LibraryShowResponse
	if err := c.call("LibraryShow", LibraryShowRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryMerge merges explicit session ids.
func (c *Client) LibraryMerge(ids []string) (*LibraryMergeResponse, error) {
	var resp LibraryMergeResponse
	if err := c.call("LibraryMerge", LibraryMergeRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryMergeSelected merges the current selection.
func (c *Client) LibraryMergeSelected() (*LibraryMergeResponse, error) {
	var resp LibraryMergeResponse
	if err := c.call("LibraryMerge", LibraryMergeRequest{Selected: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryRemove deletes sessions by id.
func (c *Client) LibraryRemove(ids []string) (*LibraryRemoveResponse, error) {
	var resp LibraryRemoveResponse
	if err := c.call("LibraryRemove", LibraryRemoveRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SelectToggle flips a session's merge-selection membership.
func (c *Client) SelectToggle(id string) (*SelectToggleResponse, error) {
	var resp SelectToggleResponse
	if err := c.call("SelectToggle", SelectToggleRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CourseList returns all courses plus the active one.
func (c *Client) CourseList() (*CourseListResponse, error) {
	var resp CourseListResponse
	if err := c.call("CourseList", CourseListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CourseAdd registers a new course.
func (c *Client) CourseAdd(name string) (*CourseAddResponse, error) {
	var resp CourseAddResponse
	if err := c.call("CourseAdd", CourseAddRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CourseRemove deletes a course.
func (c *Client) CourseRemove(name string) (*CourseRemoveResponse, error) {
	var resp CourseRemoveResponse
	if err := c.call("CourseRemove", CourseRemoveRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CourseUse marks a course active.
func (c *Client) CourseUse(name string) (*CourseUseResponse, error) {
	var resp CourseUseResponse
	if err := c.call("CourseUse", CourseUseRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
