package domain

// DeploymentFilter narrows a deployment listing
type DeploymentFilter struct {
	ChainID      uint64 // 0 matches every chain
	ContractName string
}
