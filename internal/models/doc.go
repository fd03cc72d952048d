// Feedrank - Personalized Feed Ranking and Caching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

/*
Package models defines the data structures shared by the feed ranking core.

Key Components:

  - Post: canonical post record plus the transient FeedScore/TrendingScore
    attached during a ranking pass
  - PostUpdate: partial update for counters and visibility markers
  - NewPost: creation payload validated at the API boundary
  - PreferenceProfile: per-viewer content affinities and social lists
  - Interaction: ephemeral like/comment/share/view/skip record

Posts are value types. Anything that hands posts to another component
(stores, the ranking pipeline, the feed cache) passes copies made with
Clone or ClonePosts so that rankings never alias stored records.
*/
package models
