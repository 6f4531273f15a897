/*
Package knowledge holds the static tables the agent consults while deciding: prompt templates
keyed by scenario and a nested knowledge base of item descriptions.

Both tables are loaded once, from JSON or YAML, and never mutated afterwards. Missing or
malformed files degrade to empty tables; callers detect an absent template through
domain.ErrTemplateMissing and fall back to their default action.

Knowledge entries are either plain strings or objects carrying a "description" or a "quote".
The "dialog" category maps a dialogue question to its options and their effects.
*/
package knowledge
