package attestation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/questforge/questforge-backend/pkg/httpclient"
	"github.com/questforge/questforge-backend/pkg/logging"
)

// RelayerClient talks to the delegated-attestation relayer over HTTP. The
// relayer holds the attester key and submits the EAS attestation on chain
// using the signature the user produced off-chain.
type RelayerClient struct {
	http        *httpclient.HTTPClient
	baseURL     string
	scanBaseURL string
	logger      logging.Logger
}

var _ Service = (*RelayerClient)(nil)

func NewRelayerClient(http *httpclient.HTTPClient, baseURL, scanBaseURL string, logger logging.Logger) *RelayerClient {
	return &RelayerClient{
		http:        http,
		baseURL:     baseURL,
		scanBaseURL: scanBaseURL,
		logger:      logger.With("component", "attestation_relayer"),
	}
}

type createAttestationRequest struct {
	Recipient string `json:"recipient"`
	QuestID   int64  `json:"quest_id"`
	Signature string `json:"signature"`
}

type createAttestationResponse struct {
	UID    string `json:"uid"`
	TxHash string `json:"tx_hash"`
	Error  string `json:"error,omitempty"`
}

func (c *RelayerClient) CreateDelegatedAttestation(ctx context.Context, payload Payload, signature string) (Receipt, error) {
	body, err := json.Marshal(createAttestationRequest{
		Recipient: payload.Recipient,
		QuestID:   payload.QuestID,
		Signature: signature,
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("error marshaling attestation request: %w", err)
	}

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/attestations", body)
	if err != nil {
		return Receipt{}, fmt.Errorf("attestation relayer unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Receipt{}, fmt.Errorf("error reading relayer response: %w", err)
	}

	var decoded createAttestationResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return Receipt{}, fmt.Errorf("error decoding relayer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if decoded.Error != "" {
			return Receipt{}, fmt.Errorf("%s", decoded.Error)
		}
		return Receipt{}, fmt.Errorf("relayer returned status %d", resp.StatusCode)
	}

	return Receipt{UID: decoded.UID, TxHash: decoded.TxHash}, nil
}

func (c *RelayerClient) BuildScanLink(uid string) string {
	return fmt.Sprintf("%s/attestation/view/%s", c.scanBaseURL, uid)
}
