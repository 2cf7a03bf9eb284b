package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func stubProvider(name string, address *CepAddress, err error) cepProvider {
	return cepProvider{
		name: name,
		lookup: func(ctx context.Context, client *http.Client, cep string) (*CepAddress, error) {
			return address, err
		},
	}
}

func TestCepLookupChain(t *testing.T) {
	svc := &CepService{
		client: &http.Client{Timeout: time.Second},
		providers: []cepProvider{
			stubProvider("primeiro", nil, errors.New("timeout")),
			stubProvider("segundo", &CepAddress{State: "GO"}, nil), // incomplete: no city
			stubProvider("terceiro", &CepAddress{State: "GO", City: "Goiânia", Neighborhood: "Centro"}, nil),
		},
	}

	address, err := svc.Lookup(context.Background(), "74000000")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if address.City != "Goiânia" {
		t.Fatalf("city want Goiânia got %q", address.City)
	}
	if address.Cep != "74000000" {
		t.Fatalf("cep want 74000000 got %q", address.Cep)
	}
}

func TestCepLookupFirstCompleteWins(t *testing.T) {
	svc := &CepService{
		client: &http.Client{Timeout: time.Second},
		providers: []cepProvider{
			stubProvider("primeiro", &CepAddress{City: "Goiânia", Neighborhood: "Setor Bueno"}, nil),
			stubProvider("segundo", &CepAddress{City: "Outra Cidade"}, nil),
		},
	}

	address, err := svc.Lookup(context.Background(), "74000000")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if address.Neighborhood != "Setor Bueno" {
		t.Fatalf("first complete provider must win, got %+v", address)
	}
}

func TestCepLookupExhausted(t *testing.T) {
	svc := &CepService{
		client: &http.Client{Timeout: time.Second},
		providers: []cepProvider{
			stubProvider("primeiro", nil, errors.New("unavailable")),
			stubProvider("segundo", nil, ErrCepNotFound),
		},
	}

	if _, err := svc.Lookup(context.Background(), "74000000"); err != ErrCepNotFound {
		t.Fatalf("exhausted chain want ErrCepNotFound got %v", err)
	}
}

func TestCepLookupRejectsMalformedCep(t *testing.T) {
	svc := NewCepService(time.Second)
	// Validation fires before any provider call, so no network is touched.
	if _, err := svc.Lookup(context.Background(), "123"); err != ErrCepNotFound {
		t.Fatalf("short cep want ErrCepNotFound got %v", err)
	}
	if _, err := svc.Lookup(context.Background(), ""); err != ErrCepNotFound {
		t.Fatalf("empty cep want ErrCepNotFound got %v", err)
	}
}
