package bybit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// signPayload computes the v5 request signature: hex-encoded HMAC-SHA256 over
// timestamp + api key + recv window + payload. For GET requests the payload is
// the sorted query string, for POST the raw JSON body.
func signPayload(apiSecret, timestamp, apiKey, recvWindow, payload string) string {
	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(timestamp + apiKey + recvWindow + payload))
	return hex.EncodeToString(mac.Sum(nil))
}
