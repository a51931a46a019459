// Package docs holds the OpenAPI document served at /swagger. Regenerate
// with "swag init -g cmd/server/main.go --v3.1" after changing handler annotations.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [
        {
            "url": "/api/v1"
        }
    ],
    "paths": {
        "/accounts": {
            "get": {
                "operationId": "listAccounts",
                "summary": "List accounts",
                "tags": [
                    "accounts"
                ],
                "description": "Archived accounts are hidden unless include_archived is set",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "operationId": "createAccount",
                "summary": "Open an account",
                "tags": [
                    "accounts"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            }
        },
        "/accounts/{id}": {
            "get": {
                "operationId": "getAccount",
                "summary": "Get an account",
                "tags": [
                    "accounts"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            },
            "put": {
                "operationId": "updateAccount",
                "summary": "Update an account",
                "tags": [
                    "accounts"
                ],
                "description": "The currency can only change while the account has no transactions",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            },
            "delete": {
                "operationId": "deleteAccount",
                "summary": "Delete an account",
                "tags": [
                    "accounts"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            }
        },
        "/accounts/{id}/adjust-balance": {
            "post": {
                "operationId": "adjustAccountBalance",
                "summary": "Set an account balance",
                "tags": [
                    "accounts"
                ],
                "description": "Overrides the balance, for reconciling against a bank statement",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/accounts/{id}/archive": {
            "post": {
                "operationId": "archiveAccount",
                "summary": "Archive an account",
                "tags": [
                    "accounts"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/accounts/{id}/unarchive": {
            "post": {
                "operationId": "unarchiveAccount",
                "summary": "Restore an archived account",
                "tags": [
                    "accounts"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/activities": {
            "get": {
                "operationId": "listActivities",
                "summary": "List recent activity",
                "tags": [
                    "activities"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "operationId": "loginUser",
                "summary": "User login",
                "tags": [
                    "auth"
                ],
                "description": "Authenticate with email and password",
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "401": {
                        "description": "Error"
                    },
                    "423": {
                        "description": "Error"
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "operationId": "logoutUser",
                "summary": "User logout",
                "tags": [
                    "auth"
                ],
                "description": "Revoke the current access token and, when given, the refresh token",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "operationId": "getCurrentUser",
                "summary": "Get current user",
                "tags": [
                    "auth"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            }
        },
        "/auth/password": {
            "put": {
                "operationId": "changePassword",
                "summary": "Change password",
                "tags": [
                    "auth"
                ],
                "description": "Replace the password and sign out every session",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "operationId": "refreshToken",
                "summary": "Refresh access token",
                "tags": [
                    "auth"
                ],
                "description": "Exchange a refresh token for a new token pair. Each refresh token works once.",
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "401": {
                        "description": "Error"
                    }
                }
            }
        },
        "/auth/register": {
            "post": {
                "operationId": "registerUser",
                "summary": "Register a new user",
                "tags": [
                    "auth"
                ],
                "description": "Creates the user with default settings and categories and signs them in",
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "409": {
                        "description": "Error"
                    }
                }
            }
        },
        "/categories": {
            "get": {
                "operationId": "listCategories",
                "summary": "List categories",
                "tags": [
                    "categories"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "operationId": "createCategory",
                "summary": "Create a category",
                "tags": [
                    "categories"
                ],
                "description": "Names are unique per user and type, ignoring case",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "409": {
                        "description": "Error"
                    }
                }
            }
        },
        "/categories/{id}": {
            "get": {
                "operationId": "getCategory",
                "summary": "Get a category",
                "tags": [
                    "categories"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            },
            "put": {
                "operationId": "updateCategory",
                "summary": "Update a category",
                "tags": [
                    "categories"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "409": {
                        "description": "Error"
                    }
                }
            },
            "delete": {
                "operationId": "deleteCategory",
                "summary": "Delete a category",
                "tags": [
                    "categories"
                ],
                "description": "Transactions and subscriptions in the category become uncategorized",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/dashboard/cash-flow": {
            "get": {
                "operationId": "getCashFlow",
                "summary": "Monthly income and expense",
                "tags": [
                    "dashboard"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/dashboard/spending-by-category": {
            "get": {
                "operationId": "getSpendingByCategory",
                "summary": "Totals per category",
                "tags": [
                    "dashboard"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "operationId": "getDashboardSummary",
                "summary": "Financial summary",
                "tags": [
                    "dashboard"
                ],
                "description": "Net worth, current month cash flow, subscription cost, investments and goals",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            }
        },
        "/exchange-rates": {
            "get": {
                "operationId": "listExchangeRates",
                "summary": "List stored exchange rates",
                "tags": [
                    "exchange-rates"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                }
            },
            "put": {
                "operationId": "upsertExchangeRate",
                "summary": "Set the rate of a currency pair",
                "tags": [
                    "exchange-rates"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/exchange-rates/convert": {
            "get": {
                "operationId": "convertCurrency",
                "summary": "Convert an amount",
                "tags": [
                    "exchange-rates"
                ],
                "description": "Resolves the rate directly, by inverse, through USD, or from the built-in table. Results are rounded to 2 decimals.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            }
        },
        "/exchange-rates/refresh": {
            "post": {
                "operationId": "refreshExchangeRates",
                "summary": "Pull rates from the configured feed",
                "tags": [
                    "exchange-rates"
                ],
                "description": "Does nothing when no feed is configured",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "500": {
                        "description": "Error"
                    }
                }
            }
        },
        "/goals": {
            "get": {
                "operationId": "listGoals",
                "summary": "List savings goals",
                "tags": [
                    "goals"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "operationId": "createGoal",
                "summary": "Create a savings goal",
                "tags": [
                    "goals"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/goals/{id}": {
            "get": {
                "operationId": "getGoal",
                "summary": "Get a savings goal",
                "tags": [
                    "goals"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            },
            "put": {
                "operationId": "updateGoal",
                "summary": "Update a savings goal",
                "tags": [
                    "goals"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            },
            "delete": {
                "operationId": "deleteGoal",
                "summary": "Delete a savings goal",
                "tags": [
                    "goals"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/goals/{id}/contribute": {
            "post": {
                "operationId": "contributeToGoal",
                "summary": "Add money to a goal",
                "tags": [
                    "goals"
                ],
                "description": "Reaching the target completes the goal and sends a notification",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/goals/{id}/withdraw": {
            "post": {
                "operationId": "withdrawFromGoal",
                "summary": "Take money out of a goal",
                "tags": [
                    "goals"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "operationId": "getHealth",
                "summary": "Health check",
                "tags": [
                    "system"
                ],
                "description": "Reports ok, or 503 with the failing dependencies",
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "503": {
                        "description": "Error"
                    }
                }
            }
        },
        "/investments": {
            "get": {
                "operationId": "listInvestments",
                "summary": "List investments",
                "tags": [
                    "investments"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "operationId": "createInvestment",
                "summary": "Add an investment",
                "tags": [
                    "investments"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/investments/{id}": {
            "get": {
                "operationId": "getInvestment",
                "summary": "Get an investment",
                "tags": [
                    "investments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            },
            "put": {
                "operationId": "updateInvestment",
                "summary": "Update an investment",
                "tags": [
                    "investments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            },
            "delete": {
                "operationId": "deleteInvestment",
                "summary": "Delete an investment",
                "tags": [
                    "investments"
                ],
                "description": "Its snapshot history is removed too",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/investments/{id}/price": {
            "put": {
                "operationId": "updateInvestmentPrice",
                "summary": "Record a market price",
                "tags": [
                    "investments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/investments/{id}/snapshots": {
            "get": {
                "operationId": "listInvestmentSnapshots",
                "summary": "Value history of an investment",
                "tags": [
                    "investments"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/notifications": {
            "get": {
                "operationId": "listNotifications",
                "summary": "List notifications",
                "tags": [
                    "notifications"
                ],
                "description": "Newest first",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/notifications/read-all": {
            "post": {
                "operationId": "markAllNotificationsRead",
                "summary": "Mark every notification read",
                "tags": [
                    "notifications"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                }
            }
        },
        "/notifications/unread-count": {
            "get": {
                "operationId": "countUnreadNotifications",
                "summary": "Count unread notifications",
                "tags": [
                    "notifications"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                }
            }
        },
        "/notifications/{id}": {
            "delete": {
                "operationId": "deleteNotification",
                "summary": "Delete a notification",
                "tags": [
                    "notifications"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/notifications/{id}/read": {
            "post": {
                "operationId": "markNotificationRead",
                "summary": "Mark a notification read",
                "tags": [
                    "notifications"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/settings": {
            "get": {
                "operationId": "getSettings",
                "summary": "Get user settings",
                "tags": [
                    "settings"
                ],
                "description": "Users without stored settings get the defaults",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                }
            },
            "put": {
                "operationId": "updateSettings",
                "summary": "Update user settings",
                "tags": [
                    "settings"
                ],
                "description": "Omitted fields keep their value",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/subscriptions": {
            "get": {
                "operationId": "listSubscriptions",
                "summary": "List subscriptions",
                "tags": [
                    "subscriptions"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "operationId": "createSubscription",
                "summary": "Create a subscription",
                "tags": [
                    "subscriptions"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/subscriptions/upcoming": {
            "get": {
                "operationId": "listUpcomingSubscriptions",
                "summary": "List upcoming renewals",
                "tags": [
                    "subscriptions"
                ],
                "description": "Active subscriptions renewing within the next days (default 7)",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/subscriptions/{id}": {
            "get": {
                "operationId": "getSubscription",
                "summary": "Get a subscription",
                "tags": [
                    "subscriptions"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            },
            "put": {
                "operationId": "updateSubscription",
                "summary": "Update a subscription",
                "tags": [
                    "subscriptions"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            },
            "delete": {
                "operationId": "deleteSubscription",
                "summary": "Delete a subscription",
                "tags": [
                    "subscriptions"
                ],
                "description": "Transactions already booked by the subscription are kept",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/subscriptions/{id}/cancel": {
            "post": {
                "operationId": "cancelSubscription",
                "summary": "Cancel a subscription",
                "tags": [
                    "subscriptions"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            }
        },
        "/subscriptions/{id}/pause": {
            "post": {
                "operationId": "pauseSubscription",
                "summary": "Pause a subscription",
                "tags": [
                    "subscriptions"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            }
        },
        "/subscriptions/{id}/renew": {
            "post": {
                "operationId": "renewSubscription",
                "summary": "Renew a subscription now",
                "tags": [
                    "subscriptions"
                ],
                "description": "Books the renewal immediately, ahead of schedule when it is not yet due",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            }
        },
        "/subscriptions/{id}/resume": {
            "post": {
                "operationId": "resumeSubscription",
                "summary": "Resume a paused subscription",
                "tags": [
                    "subscriptions"
                ],
                "description": "Periods skipped while paused are not charged",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            }
        },
        "/system/info": {
            "get": {
                "operationId": "getSystemInfo",
                "summary": "Get system information",
                "tags": [
                    "system"
                ],
                "description": "Returns basic system information including version and uptime",
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                }
            }
        },
        "/system/ping": {
            "get": {
                "operationId": "pingSystem",
                "summary": "Ping the API",
                "tags": [
                    "system"
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    }
                }
            }
        },
        "/transactions": {
            "get": {
                "operationId": "listTransactions",
                "summary": "List transactions",
                "tags": [
                    "transactions"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            },
            "post": {
                "operationId": "createTransaction",
                "summary": "Record a transaction",
                "tags": [
                    "transactions"
                ],
                "description": "Updates the account balance, and the destination balance for transfers",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            }
        },
        "/transactions/export": {
            "get": {
                "operationId": "exportTransactions",
                "summary": "Export transactions as CSV",
                "tags": [
                    "transactions"
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    }
                }
            }
        },
        "/transactions/export/upload": {
            "post": {
                "operationId": "uploadTransactionExport",
                "summary": "Export transactions to object storage",
                "tags": [
                    "transactions"
                ],
                "description": "Stores the CSV export and returns a presigned download link",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Success"
                    },
                    "503": {
                        "description": "Error"
                    }
                }
            }
        },
        "/transactions/statement": {
            "get": {
                "operationId": "transactionStatement",
                "summary": "Monthly account statement",
                "tags": [
                    "transactions"
                ],
                "description": "Opening and closing balance with every entry of the month. PDF output needs a configured renderer.",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "503": {
                        "description": "Error"
                    }
                }
            }
        },
        "/transactions/import": {
            "post": {
                "operationId": "importTransactions",
                "summary": "Import transactions from CSV",
                "tags": [
                    "transactions"
                ],
                "description": "Rows that cannot be parsed are reported; the rest are recorded",
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        },
        "/transactions/{id}": {
            "get": {
                "operationId": "getTransaction",
                "summary": "Get a transaction",
                "tags": [
                    "transactions"
                ],
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            },
            "put": {
                "operationId": "updateTransaction",
                "summary": "Replace a transaction",
                "tags": [
                    "transactions"
                ],
                "description": "Reverses the old balance effect and applies the new one atomically",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Success"
                    },
                    "400": {
                        "description": "Error"
                    },
                    "404": {
                        "description": "Error"
                    },
                    "422": {
                        "description": "Error"
                    }
                }
            },
            "delete": {
                "operationId": "deleteTransaction",
                "summary": "Delete a transaction",
                "tags": [
                    "transactions"
                ],
                "description": "Reverses its balance effect",
                "parameters": [
                    {
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "schema": {
                            "type": "string",
                            "format": "uuid"
                        }
                    }
                ],
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Success"
                    },
                    "404": {
                        "description": "Error"
                    }
                }
            }
        }
    },
    "components": {
        "securitySchemes": {
            "BearerAuth": {
                "type": "http",
                "scheme": "bearer",
                "bearerFormat": "JWT"
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "FinTrack API",
	Description:      "Personal finance tracking: accounts, transactions, subscriptions, goals and investments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
