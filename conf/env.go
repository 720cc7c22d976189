package conf

import "fmt"

// EnvironmentEnum deployment environment
type EnvironmentEnum int

const (
	LocalEnvironmentEnum EnvironmentEnum = iota
	TestnetEnvironmentEnum
	MainnetEnvironmentEnum
	ExampleEnvironmentEnum
)

// SystemEnvironmentEnum current environment, set from the -env flag
var SystemEnvironmentEnum = MainnetEnvironmentEnum

func (e EnvironmentEnum) String() string {
	switch e {
	case LocalEnvironmentEnum:
		return "loc"
	case TestnetEnvironmentEnum:
		return "testnet"
	case ExampleEnvironmentEnum:
		return "example"
	default:
		return "mainnet"
	}
}

// ParseEnvironment maps the -env flag value to an EnvironmentEnum
func ParseEnvironment(env string) (EnvironmentEnum, error) {
	switch env {
	case "loc":
		return LocalEnvironmentEnum, nil
	case "testnet":
		return TestnetEnvironmentEnum, nil
	case "mainnet":
		return MainnetEnvironmentEnum, nil
	case "example":
		return ExampleEnvironmentEnum, nil
	}
	return MainnetEnvironmentEnum, fmt.Errorf("unknown environment: %s", env)
}

// GetYaml returns the config file for the current environment
func GetYaml() string {
	return fmt.Sprintf("./conf/conf_%s.yaml", SystemEnvironmentEnum)
}
