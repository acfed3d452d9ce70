// Package kraken implements the Kraken private REST protocol used to sweep
// an account balance into a market sell.
//
// The package includes:
//   - Signer: the API-Sign scheme, HMAC-SHA512 over path and SHA256(nonce+body)
//   - Protocol: form request building for Balance and AddOrder, envelope parsing
//   - Normalizer: conversion of Kraken payloads into canonical core types
//   - KrakenExchange: the exchange.Exchange implementation over a session
//
// Example usage:
//
//	config := core.DefaultConfig("kraken").WithCredentials(&core.Credentials{
//		APIKey:    key,
//		SecretKey: secret,
//	})
//	ex, err := kraken.New(config)
//	balances, err := ex.FetchBalance(ctx)
package kraken
