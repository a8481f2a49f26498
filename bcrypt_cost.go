//go:build !race

package crm

func passwordHashCost() int {
	return 14
}
