package gateway

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"slot_backend/internal/ledger"
	"slot_backend/internal/model"
	"slot_backend/pkg/betkey"
)

// Client HTTP клиент леджера
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient Создать клиента. nil client означает http.DefaultClient.
func NewClient(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %v", ledger.ErrUnavailable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err != nil || er.Code == "" {
			return fmt.Errorf("%w: %s returned %s", ledger.ErrUnavailable, path, resp.Status)
		}
		return fmt.Errorf("%w: %s", wireToError(er.Code), er.Message)
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw, err = io.ReadAll(resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// SubmitCommit POST /commits
func (c *Client) SubmitCommit(ctx context.Context, player model.Address, mode model.Mode, betAmount, spinIndex uint64) (ledger.CommitReceipt, error) {
	var resp commitResponse
	err := c.do(ctx, http.MethodPost, "/commits", commitRequest{
		Player:    player.String(),
		Mode:      mode.String(),
		BetAmount: betAmount,
		SpinIndex: spinIndex,
	}, &resp)
	if err != nil {
		return ledger.CommitReceipt{}, err
	}

	key, err := betkey.DecodeHex(resp.BetKey)
	if err != nil {
		return ledger.CommitReceipt{}, fmt.Errorf("commit response: %w", err)
	}
	return ledger.CommitReceipt{BetKey: key, CommitRound: resp.CommitRound, TxID: resp.TxID, JackpotPools: resp.JackpotPools}, nil
}

// ReadRandomness GET /randomness/{round}
func (c *Client) ReadRandomness(ctx context.Context, round uint64) ([32]byte, error) {
	var resp randomnessResponse
	if err := c.do(ctx, http.MethodGet, "/randomness/"+strconv.FormatUint(round, 10), nil, &resp); err != nil {
		return [32]byte{}, err
	}

	var seed [32]byte
	raw, err := hex.DecodeString(resp.Seed)
	if err != nil || len(raw) != len(seed) {
		return seed, fmt.Errorf("randomness response: bad seed %q", resp.Seed)
	}
	copy(seed[:], raw)
	return seed, nil
}

// SubmitReveal POST /reveals
func (c *Client) SubmitReveal(ctx context.Context, key betkey.Key) (uint64, error) {
	var resp payoutResponse
	if err := c.do(ctx, http.MethodPost, "/reveals", revealRequest{BetKey: key.Hex()}, &resp); err != nil {
		return 0, err
	}
	return resp.Payout, nil
}

// RevealedPayout GET /reveals/{betKey}
func (c *Client) RevealedPayout(ctx context.Context, key betkey.Key) (uint64, error) {
	var resp payoutResponse
	if err := c.do(ctx, http.MethodGet, "/reveals/"+key.Hex(), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Payout, nil
}

// MachineParameters GET /parameters, ответ проходит строгую проверку
func (c *Client) MachineParameters(ctx context.Context) (model.MachineParameters, error) {
	var raw []byte
	if err := c.do(ctx, http.MethodGet, "/parameters", nil, &raw); err != nil {
		return model.MachineParameters{}, err
	}
	return ledger.DecodeParamsJSON(raw)
}

// Balance GET /balances/{player}/{mode}
func (c *Client) Balance(ctx context.Context, player model.Address, mode model.Mode) (uint64, error) {
	var resp balanceResponse
	if err := c.do(ctx, http.MethodGet, "/balances/"+player.String()+"/"+mode.String(), nil, &resp); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

var _ ledger.Ledger = (*Client)(nil)
