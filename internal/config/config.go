package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Chain struct {
	Network      string `yaml:"Network"`
	RpcUrl       string `yaml:"RpcUrl"`
	StrkCA       string `yaml:"StrkCA"`
	StrkSymbol   string `yaml:"StrkSymbol"`
	StrkDecimals uint8  `yaml:"StrkDecimals"`
	SlippageBps  int    `yaml:"SlippageBps"`
}

type Avnu struct {
	BaseUrl string `yaml:"BaseUrl"`
}

type Cavos struct {
	BaseUrl   string `yaml:"BaseUrl"`
	OrgId     string `yaml:"OrgId"`
	OrgSecret string `yaml:"OrgSecret"`
}

type Voyager struct {
	BaseUrl string `yaml:"BaseUrl"`
}

type Api struct {
	Host string `yaml:"Host"`
	Port int    `yaml:"Port"`
}

func (c *Api) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type Sock5Proxy struct {
	Host   string `yaml:"Host"`
	Port   int32  `yaml:"Port"`
	Enable bool   `yaml:"Enable"`
}

type TelegramBot struct {
	Enable   bool   `yaml:"Enable"`
	ApiToken string `yaml:"ApiToken"`
	ChatId   int64  `yaml:"ChatId"`
}

type SwapSettings struct {
	QuoteDebounceMs   int    `yaml:"QuoteDebounceMs"`
	SessionTTLMinutes int    `yaml:"SessionTTLMinutes"`
	DeployEventName   string `yaml:"DeployEventName"`
}

func (c *SwapSettings) Validate() error {
	if c.QuoteDebounceMs <= 0 {
		c.QuoteDebounceMs = 500
	}
	if c.SessionTTLMinutes <= 0 {
		c.SessionTTLMinutes = 60
	}
	if c.DeployEventName == "" {
		c.DeployEventName = "token_deployed"
	}
	return nil
}

type Config struct {
	LogFile      string       `yaml:"LogFile"`
	Debug        bool         `yaml:"Debug"`
	Chain        Chain        `yaml:"Chain"`
	Avnu         Avnu         `yaml:"Avnu"`
	Cavos        Cavos        `yaml:"Cavos"`
	Voyager      Voyager      `yaml:"Voyager"`
	Api          Api          `yaml:"Api"`
	Sock5Proxy   Sock5Proxy   `yaml:"Sock5Proxy"`
	TelegramBot  TelegramBot  `yaml:"TelegramBot"`
	SwapSettings SwapSettings `yaml:"SwapSettings"`
}

func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var c Config
	err = yaml.Unmarshal([]byte(data), &c)
	if err != nil {
		return nil, err
	}

	if c.Chain.Network != "mainnet" && c.Chain.Network != "sepolia" {
		return nil, errors.New("Chain.Network配置枚举值范围: mainnet/sepolia")
	}
	if c.Chain.StrkCA == "" {
		return nil, errors.New("Chain.StrkCA不能为空")
	}
	if c.Chain.StrkSymbol == "" {
		c.Chain.StrkSymbol = "STRK"
	}
	if c.Chain.StrkDecimals == 0 {
		c.Chain.StrkDecimals = 18
	}
	if c.Chain.SlippageBps <= 0 {
		c.Chain.SlippageBps = 50
	}

	if c.Avnu.BaseUrl == "" {
		c.Avnu.BaseUrl = "https://starknet.api.avnu.fi"
	}
	if c.Cavos.BaseUrl == "" {
		c.Cavos.BaseUrl = "https://services.cavos.xyz"
	}
	if c.Cavos.OrgId == "" {
		return nil, errors.New("Cavos.OrgId不能为空")
	}
	if c.Voyager.BaseUrl == "" {
		c.Voyager.BaseUrl = "https://voyager.online/api"
	}

	if c.Api.Port == 0 {
		c.Api.Port = 8080
	}

	if err = c.SwapSettings.Validate(); err != nil {
		return nil, fmt.Errorf("SwapSettings配置错误: %w", err)
	}

	return &c, nil
}
