package domain

type ConnManager interface {
	SyncAPI(provider string) (ProviderSyncAPI, error)
	Providers() []string
}
