/*
Core implements the market-making strategy executor.

# Module
  - in-memory bus: unbounded FIFO that receives book, trade and fill events from any number of producers
  - router: the single owner of all mutable strategy state, draining the bus one event at a time
  - signal engine: rolling book/trade windows and the derived signal snapshot
  - quote layer: pure mapping from a snapshot to quote proposals
  - risk engine: admits proposals against the inventory limit and books simulated fills

# Source
 1. book and trade events from the market data feed
 2. fill reports from the execution side when simulated fills are disabled

# Produce
  - admitted quote intents to the intent sink
*/
package core
