package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/indicamais/internal/logger"
)

// CepAddress is the normalized result of a postal-code lookup.
type CepAddress struct {
	Cep          string `json:"cep"`
	State        string `json:"state"`
	City         string `json:"city"`
	Neighborhood string `json:"neighborhood"`
	Street       string `json:"street"`
}

// CepLookup resolves a normalized 8-digit CEP to an address.
type CepLookup interface {
	Lookup(ctx context.Context, cep string) (*CepAddress, error)
}

// cepProvider is one upstream in the fallback chain.
type cepProvider struct {
	name   string
	lookup func(ctx context.Context, client *http.Client, cep string) (*CepAddress, error)
}

// CepService queries public CEP providers in order and returns the first
// field-complete answer. Providers disagree on coverage and uptime, so a
// miss or failure on one just moves the chain along.
type CepService struct {
	client    *http.Client
	providers []cepProvider
}

// NewCepService creates the lookup chain with a per-provider timeout.
func NewCepService(timeout time.Duration) *CepService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CepService{
		client: &http.Client{Timeout: timeout},
		providers: []cepProvider{
			{name: "viacep", lookup: lookupViaCep},
			{name: "brasilapi", lookup: lookupBrasilAPI},
			{name: "opencep", lookup: lookupOpenCep},
		},
	}
}

// Lookup tries each provider in order. ErrCepNotFound is returned only after
// the whole chain has been exhausted.
func (s *CepService) Lookup(ctx context.Context, cep string) (*CepAddress, error) {
	if msg := validateCep(cep); msg != "" {
		return nil, ErrCepNotFound
	}
	for _, provider := range s.providers {
		address, err := provider.lookup(ctx, s.client, cep)
		if err != nil {
			logger.Debugw("cep_provider_miss", "provider", provider.name, "cep", cep, "error", err)
			continue
		}
		if address.City == "" {
			continue
		}
		address.Cep = cep
		return address, nil
	}
	return nil, ErrCepNotFound
}

func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func lookupViaCep(ctx context.Context, client *http.Client, cep string) (*CepAddress, error) {
	var body struct {
		Cep        string `json:"cep"`
		Uf         string `json:"uf"`
		Localidade string `json:"localidade"`
		Bairro     string `json:"bairro"`
		Logradouro string `json:"logradouro"`
		Erro       bool   `json:"erro"`
	}
	url := fmt.Sprintf("https://viacep.com.br/ws/%s/json/", cep)
	if err := fetchJSON(ctx, client, url, &body); err != nil {
		return nil, err
	}
	if body.Erro {
		return nil, ErrCepNotFound
	}
	return &CepAddress{
		State:        body.Uf,
		City:         body.Localidade,
		Neighborhood: body.Bairro,
		Street:       body.Logradouro,
	}, nil
}

func lookupBrasilAPI(ctx context.Context, client *http.Client, cep string) (*CepAddress, error) {
	var body struct {
		Cep          string `json:"cep"`
		State        string `json:"state"`
		City         string `json:"city"`
		Neighborhood string `json:"neighborhood"`
		Street       string `json:"street"`
	}
	url := fmt.Sprintf("https://brasilapi.com.br/api/cep/v1/%s", cep)
	if err := fetchJSON(ctx, client, url, &body); err != nil {
		return nil, err
	}
	return &CepAddress{
		State:        body.State,
		City:         body.City,
		Neighborhood: body.Neighborhood,
		Street:       body.Street,
	}, nil
}

func lookupOpenCep(ctx context.Context, client *http.Client, cep string) (*CepAddress, error) {
	var body struct {
		Cep        string `json:"cep"`
		Uf         string `json:"uf"`
		Localidade string `json:"localidade"`
		Bairro     string `json:"bairro"`
		Logradouro string `json:"logradouro"`
	}
	url := fmt.Sprintf("https://opencep.com/v1/%s", cep)
	if err := fetchJSON(ctx, client, url, &body); err != nil {
		return nil, err
	}
	return &CepAddress{
		State:        body.Uf,
		City:         body.Localidade,
		Neighborhood: body.Bairro,
		Street:       body.Logradouro,
	}, nil
}
