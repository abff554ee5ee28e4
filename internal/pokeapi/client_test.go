package pokeapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestListPokemon_SendsLimitAndParsesResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pokemon" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "3" {
			t.Fatalf("unexpected limit query: %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Fatalf("unexpected accept header: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1302,"next":"https://pokeapi.co/api/v2/pokemon?offset=3&limit=3","previous":null,"results":[
			{"name":"bulbasaur","url":"https://pokeapi.co/api/v2/pokemon/1/"},
			{"name":"ivysaur","url":"https://pokeapi.co/api/v2/pokemon/2/"},
			{"name":"venusaur","url":"https://pokeapi.co/api/v2/pokemon/3/"}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	results, err := c.ListPokemon(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListPokemon returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[2].Name != "venusaur" || !strings.HasSuffix(results[2].URL, "/pokemon/3/") {
		t.Fatalf("unexpected third result: %+v", results[2])
	}
}

func TestListPokemon_RejectsNonPositiveLimit(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", nil)
	if _, err := c.ListPokemon(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestGetPokemon_ParsesDetail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pokemon/charizard" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id":6,"name":"charizard","base_experience":267,"height":17,"weight":905,
			"types":[{"slot":1,"type":{"name":"fire","url":"https://pokeapi.co/api/v2/type/10/"}},
			         {"slot":2,"type":{"name":"flying","url":"https://pokeapi.co/api/v2/type/3/"}}],
			"stats":[{"base_stat":78,"effort":0,"stat":{"name":"hp","url":""}},
			         {"base_stat":84,"effort":0,"stat":{"name":"attack","url":""}}],
			"sprites":{"front_default":"https://img/front/6.png",
			           "other":{"official-artwork":{"front_default":"https://img/art/6.png"}}}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	p, err := c.GetPokemon(context.Background(), "charizard")
	if err != nil {
		t.Fatalf("GetPokemon returned error: %v", err)
	}
	if p.ID != 6 || p.Name != "charizard" {
		t.Fatalf("unexpected pokemon: %+v", p)
	}
	if p.BaseExperience == nil || *p.BaseExperience != 267 {
		t.Fatalf("unexpected base experience: %v", p.BaseExperience)
	}
	if len(p.Types) != 2 || p.Types[1].Type.Name != "flying" {
		t.Fatalf("unexpected types: %+v", p.Types)
	}
	if len(p.Stats) != 2 || p.Stats[1].BaseStat != 84 {
		t.Fatalf("unexpected stats: %+v", p.Stats)
	}
	if p.Sprites.Other.OfficialArtwork.FrontDefault == nil || *p.Sprites.Other.OfficialArtwork.FrontDefault != "https://img/art/6.png" {
		t.Fatalf("unexpected artwork sprite: %+v", p.Sprites)
	}
}

func TestGetPokemon_NotFoundIsUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	_, err := c.GetPokemon(context.Background(), "missingno")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var upstream *UpstreamError
	if !errors.As(err, &upstream) || upstream.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 UpstreamError, got %#v", err)
	}
}

func TestGetPokemon_ServerErrorIsNotNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	_, err := c.GetPokemon(context.Background(), "1")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("did not expect ErrNotFound for 502: %v", err)
	}
	if !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestGetPokemon_DecodeErrorIsUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	_, err := c.GetPokemon(context.Background(), "1")
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestListTypes_ParsesResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/type" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"count":2,"results":[{"name":"normal","url":"u1"},{"name":"fire","url":"u2"}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	types, err := c.ListTypes(context.Background())
	if err != nil {
		t.Fatalf("ListTypes returned error: %v", err)
	}
	if len(types) != 2 || types[1].Name != "fire" {
		t.Fatalf("unexpected types: %+v", types)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient("https://pokeapi.co/api/v2/", nil)
	if c.baseURL != "https://pokeapi.co/api/v2" {
		t.Fatalf("unexpected base URL: %s", c.baseURL)
	}
	if c.http.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", c.http.Timeout)
	}
}
