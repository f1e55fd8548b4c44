package types

type RequestPairingCode struct {
	Number string `query:"number"`
}

type RequestVersionRefresh struct {
	Force bool `query:"force"`
}
