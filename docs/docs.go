// Package docs registers the OpenAPI description of the vault API with swag.
// Keep it in step with the annotations on internal/handlers.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.HealthResponse"
                        }
                    },
                    "503": {
                        "description": "Degraded",
                        "schema": {
                            "$ref": "#/definitions/handlers.HealthResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/vaults": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vaults"
                ],
                "summary": "Initialize a vault",
                "parameters": [
                    {
                        "description": "Vault parameters",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.CreateVaultRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.VaultResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}": {
            "get": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vaults"
                ],
                "summary": "Get a vault",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.VaultResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/vaults/{vault}/mint": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vaults"
                ],
                "summary": "Initialize the derivative token mint",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.VaultResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/buy": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "tokens"
                ],
                "summary": "Buy derivative tokens with collateral",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Collateral in lamports",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.AmountRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.PurchaseResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "422": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/rate": {
            "put": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "vaults"
                ],
                "summary": "Update the exchange rate",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "New rate",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.UpdateRateRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.VaultResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/admin-withdrawals": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "treasury"
                ],
                "summary": "Withdraw to the payout destination",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Lamports to withdraw",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.AmountRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.VaultResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/deposits": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "treasury"
                ],
                "summary": "Deposit collateral",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Lamports to deposit",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.AmountRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.VaultResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/withdrawals": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "treasury"
                ],
                "summary": "Withdraw to the admin",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Lamports to withdraw",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.AmountRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.VaultResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/children": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "children"
                ],
                "summary": "Deposit into the caller's child ledger",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Lamports to deposit",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.AmountRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ChildResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/children/{child}": {
            "get": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "children"
                ],
                "summary": "Get a child ledger",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Child ledger address (base58)",
                        "name": "child",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ChildResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/vaults/{vault}/children/{child}/payouts": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payouts"
                ],
                "summary": "Request a payout",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Child ledger address (base58)",
                        "name": "child",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Amount and nonce",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.RequestPayoutRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.PayoutResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/children/{child}/payouts/{payout}": {
            "get": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payouts"
                ],
                "summary": "Get a pending payout",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Child ledger address (base58)",
                        "name": "child",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Pending payout address (base58)",
                        "name": "payout",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.PayoutResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/vaults/{vault}/children/{child}/payouts/{payout}/execute": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "payouts"
                ],
                "summary": "Execute a requested payout",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Child ledger address (base58)",
                        "name": "child",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Pending payout address (base58)",
                        "name": "payout",
                        "in": "path",
                        "required": true
                    },
                    {
                        "description": "Recipient",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.ExecutePayoutRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.PayoutResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "403": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        },
        "/api/v1/vaults/{vault}/tokens/{owner}": {
            "get": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "tokens"
                ],
                "summary": "Get a derivative token balance",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Vault address (base58)",
                        "name": "vault",
                        "in": "path",
                        "required": true
                    },
                    {
                        "type": "string",
                        "description": "Token owner (base58)",
                        "name": "owner",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.BalanceResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/accounts/{account}/balance": {
            "get": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "accounts"
                ],
                "summary": "Get a collateral balance",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Account address (base58)",
                        "name": "account",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.BalanceResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/faucet": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "accounts"
                ],
                "summary": "Airdrop collateral (non-production only)",
                "parameters": [
                    {
                        "description": "Recipient and lamports",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.FaucetRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.BalanceResponse"
                        }
                    },
                    "400": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "Signer": [],
                        "Signature": [],
                        "Timestamp": []
                    }
                ]
            }
        }
    },
    "definitions": {
        "handlers.AmountRequest": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string",
                    "example": "1000000000"
                }
            }
        },
        "handlers.BalanceResponse": {
            "type": "object",
            "properties": {
                "object": {
                    "type": "string"
                },
                "owner": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "balance": {
                    "$ref": "#/definitions/handlers.Money"
                }
            }
        },
        "handlers.ChildResponse": {
            "type": "object",
            "properties": {
                "object": {
                    "type": "string"
                },
                "address": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "vault": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "authority": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "total_deposited": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "total_paid_out": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "remaining": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "created_at": {
                    "type": "integer"
                }
            }
        },
        "handlers.CreateVaultRequest": {
            "type": "object",
            "properties": {
                "payout_destination": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "rate_numerator": {
                    "type": "string",
                    "example": "1000000000"
                },
                "rate_denominator": {
                    "type": "string",
                    "example": "1000000000"
                },
                "supply_cap": {
                    "type": "string",
                    "example": "1000000000"
                }
            },
            "required": [
                "payout_destination"
            ]
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "string"
                },
                "code": {
                    "type": "string"
                },
                "number": {
                    "type": "integer"
                },
                "correlation_id": {
                    "type": "string"
                }
            }
        },
        "handlers.ExecutePayoutRequest": {
            "type": "object",
            "properties": {
                "recipient": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                }
            },
            "required": [
                "recipient"
            ]
        },
        "handlers.FaucetRequest": {
            "type": "object",
            "properties": {
                "recipient": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "amount": {
                    "type": "string",
                    "example": "1000000000"
                }
            },
            "required": [
                "recipient",
                "amount"
            ]
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "checks": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
            }
        },
        "handlers.Money": {
            "type": "object",
            "properties": {
                "units": {
                    "type": "string",
                    "example": "1000000000"
                },
                "display": {
                    "type": "string",
                    "example": "1"
                }
            }
        },
        "handlers.PayoutResponse": {
            "type": "object",
            "properties": {
                "object": {
                    "type": "string"
                },
                "address": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "vault": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "child": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "amount": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "requested",
                        "executed"
                    ]
                },
                "requested_at": {
                    "type": "integer"
                }
            }
        },
        "handlers.PurchaseResponse": {
            "type": "object",
            "properties": {
                "object": {
                    "type": "string"
                },
                "vault": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "buyer": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "collateral": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "minted": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "token_account": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                }
            }
        },
        "handlers.RequestPayoutRequest": {
            "type": "object",
            "properties": {
                "amount": {
                    "type": "string",
                    "example": "1000000000"
                },
                "nonce": {
                    "type": "string",
                    "example": "1000000000"
                }
            }
        },
        "handlers.UpdateRateRequest": {
            "type": "object",
            "properties": {
                "rate_numerator": {
                    "type": "string",
                    "example": "1000000000"
                },
                "rate_denominator": {
                    "type": "string",
                    "example": "1000000000"
                }
            }
        },
        "handlers.VaultResponse": {
            "type": "object",
            "properties": {
                "object": {
                    "type": "string"
                },
                "address": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "admin": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "payout_destination": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "treasury": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "mint": {
                    "type": "string",
                    "example": "11111111111111111111111111111111"
                },
                "rate_numerator": {
                    "type": "string",
                    "example": "1000000000"
                },
                "rate_denominator": {
                    "type": "string",
                    "example": "1000000000"
                },
                "supply_cap": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "total_minted": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "total_deposited": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "total_withdrawn": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "treasury_balance": {
                    "$ref": "#/definitions/handlers.Money"
                },
                "created_at": {
                    "type": "integer"
                }
            }
        }
    },
    "securityDefinitions": {
        "Signer": {
            "description": "Base58 identity of the signing caller",
            "type": "apiKey",
            "name": "X-Signer",
            "in": "header"
        },
        "Signature": {
            "description": "Base58 ed25519 signature over METHOD, request URI, timestamp and body digest",
            "type": "apiKey",
            "name": "X-Signature",
            "in": "header"
        },
        "Timestamp": {
            "description": "Unix seconds at signing",
            "type": "apiKey",
            "name": "X-Timestamp",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Cyphera Vault API",
	Description:      "Custody vault: collateral escrow, derivative token sale and admin-gated payouts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
