// Package models defines the domain records of the rental shop.
//
// # Models
//
//   - Bike: a rentable bike in the shop inventory (live record)
//   - Customer: contact details captured when a ticket is opened
//   - BikeSnapshot: the bike fields copied into a ticket at creation time
//   - Ticket: a single rental from checkout to return, with billing fields
//
// # Snapshots, not references
//
// A Ticket embeds copies of the bike and customer as they were when the
// rental started. Editing the live Bike later (repricing, renaming) does not
// change any ticket; billing always uses the rate captured at checkout.
//
// # Serialization
//
// The JSON tags match the on-disk format of inventory.json and tickets.json.
// An open ticket serializes end_time as "" rather than null (see Timestamp).
package models
