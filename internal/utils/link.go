package utils

import "fmt"

func GetVoyagerTxLink(network string, hash string) string {
	switch network {
	case "mainnet":
		return fmt.Sprintf("https://voyager.online/tx/%s", hash)
	case "sepolia":
		return fmt.Sprintf("https://sepolia.voyager.online/tx/%s", hash)
	}
	return ""
}

func GetVoyagerContractLink(network string, contract string) string {
	switch network {
	case "mainnet":
		return fmt.Sprintf("https://voyager.online/contract/%s", contract)
	case "sepolia":
		return fmt.Sprintf("https://sepolia.voyager.online/contract/%s", contract)
	}
	return ""
}

func GetAvnuTokenLink(network string, token string) string {
	switch network {
	case "mainnet":
		return fmt.Sprintf("https://app.avnu.fi/en?tokenTo=%s", token)
	}
	return ""
}
