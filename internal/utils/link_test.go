package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVoyagerLinks(t *testing.T) {
	require.Equal(t, "https://voyager.online/tx/0xabc", GetVoyagerTxLink("mainnet", "0xabc"))
	require.Equal(t, "https://sepolia.voyager.online/tx/0xabc", GetVoyagerTxLink("sepolia", "0xabc"))

	require.Equal(t, "https://voyager.online/contract/0x123", GetVoyagerContractLink("mainnet", "0x123"))
	require.Equal(t, "https://sepolia.voyager.online/contract/0x123", GetVoyagerContractLink("sepolia", "0x123"))
}
