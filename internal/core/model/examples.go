// Copyright 2025 ClipForge, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// This file provides factory functions for hardcoded example instances of the
// model output schema. The examples are embedded into prompts as "few-shot"
// guidance so the generative model returns JSON that is consistent and
// parsable.

package model

// GetExampleBreakdown creates a sample ContentBreakdown used as the few-shot
// example in the analysis prompt. It shows the model the exact JSON shape
// expected back: transcript string, four script components, and the content
// metadata block with a source taken from the category allow-list.
func GetExampleBreakdown() *ContentBreakdown {
	out := &ContentBreakdown{
		Transcript: "Most creators burn out in their first year, and it almost always " +
			"comes down to one mistake. They treat every video like it has to go viral. " +
			"The creators who last pick one repeatable format and publish it on a schedule " +
			"their life can actually sustain. Try it for thirty days and watch what " +
			"happens to your channel. Follow for part two where I break down the format " +
			"I'd pick today.",
	}
	out.Components.Hook = "Most creators burn out in their first year, and it almost always comes down to one mistake."
	out.Components.Bridge = "They treat every video like it has to go viral."
	out.Components.Nugget = "The creators who last pick one repeatable format and publish it on a schedule their life can actually sustain."
	out.Components.Wta = "Follow for part two where I break down the format I'd pick today."
	out.ContentMetadata.Platform = "tiktok"
	out.ContentMetadata.Author = "creatoreconomy.daily"
	out.ContentMetadata.Description = "Why most creators quit and the posting system that prevents it."
	out.ContentMetadata.Source = "education"
	out.ContentMetadata.Hashtags = []string{"#creatortips", "#contentstrategy", "#burnout"}
	return out
}
